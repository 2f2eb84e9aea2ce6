package user

import (
	"context"

	"gorm.io/gorm"

	"inventory.GO/model/entity"
	"inventory.GO/model/repository"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindActiveToken returns a non-revoked API token by its token string.
func (r *UserRepository) FindActiveToken(ctx context.Context, token string) (*entity.APIToken, error) {
	var t entity.APIToken
	err := r.db.WithContext(ctx).Where("token = ? AND revoked = ?", token, false).First(&t).Error
	if err != nil {
		return nil, repository.NotFound(err)
	}
	return &t, nil
}

func (r *UserRepository) CreateToken(ctx context.Context, t *entity.APIToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// FindByUsername returns an active user with groups loaded.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var u entity.User
	err := r.db.WithContext(ctx).Preload("Groups").
		Where("username = ? AND is_active = ?", username, true).
		First(&u).Error
	if err != nil {
		return nil, repository.NotFound(err)
	}
	return &u, nil
}

// RecipientsInGroup returns the distinct, non-empty emails of active members of the named group.
func (r *UserRepository) RecipientsInGroup(ctx context.Context, groupName string) ([]string, error) {
	var emails []string
	err := r.db.WithContext(ctx).
		Table("auth_users").
		Joins("JOIN auth_user_groups ON auth_user_groups.user_id = auth_users.id").
		Joins("JOIN auth_groups ON auth_groups.id = auth_user_groups.group_id").
		Where("auth_groups.name = ? AND auth_users.is_active = ? AND auth_users.email <> ''", groupName, true).
		Order("auth_users.email").
		Distinct().
		Pluck("auth_users.email", &emails).Error
	return emails, err
}

// UsernameTaken reports whether any user, active or not, holds username.
func (r *UserRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.User{}).Where("username = ?", username).Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]entity.User, error) {
	var us []entity.User
	err := r.db.WithContext(ctx).Preload("Groups").Order("id").Find(&us).Error
	return us, err
}

func (r *UserRepository) GetUser(ctx context.Context, id uint) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Preload("Groups.Permissions").First(&u, id).Error; err != nil {
		return nil, repository.NotFound(err)
	}
	return &u, nil
}

// CreateUser inserts u and assigns groupIDs.
func (r *UserRepository) CreateUser(ctx context.Context, u *entity.User, groupIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Groups").Create(u).Error; err != nil {
			return err
		}
		return replaceGroups(tx, u, groupIDs)
	})
}

// SaveUser writes the scalar columns of u. A non-nil groupIDs replaces its groups.
func (r *UserRepository) SaveUser(ctx context.Context, u *entity.User, groupIDs *[]uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Groups").Save(u).Error; err != nil {
			return err
		}
		if groupIDs == nil {
			return nil
		}
		return replaceGroups(tx, u, *groupIDs)
	})
}

func replaceGroups(tx *gorm.DB, u *entity.User, ids []uint) error {
	var groups []entity.Group
	if len(ids) > 0 {
		if err := tx.Where("id IN ?", ids).Find(&groups).Error; err != nil {
			return err
		}
		if len(groups) != len(ids) {
			return entity.ErrNotFound
		}
	}
	if len(groups) == 0 {
		return tx.Model(u).Association("Groups").Clear()
	}
	return tx.Model(u).Association("Groups").Replace(groups)
}

func (r *UserRepository) ListGroups(ctx context.Context) ([]entity.Group, error) {
	var gs []entity.Group
	err := r.db.WithContext(ctx).Preload("Permissions").Order("id").Find(&gs).Error
	return gs, err
}

func (r *UserRepository) GetGroup(ctx context.Context, id uint) (*entity.Group, error) {
	var g entity.Group
	if err := r.db.WithContext(ctx).Preload("Permissions").First(&g, id).Error; err != nil {
		return nil, repository.NotFound(err)
	}
	return &g, nil
}

// SaveGroup upserts g. A non-nil permissionIDs replaces its permissions.
func (r *UserRepository) SaveGroup(ctx context.Context, g *entity.Group, permissionIDs *[]uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Permissions").Save(g).Error; err != nil {
			return err
		}
		if permissionIDs == nil {
			return nil
		}
		var perms []entity.Permission
		if len(*permissionIDs) > 0 {
			if err := tx.Where("id IN ?", *permissionIDs).Find(&perms).Error; err != nil {
				return err
			}
			if len(perms) != len(*permissionIDs) {
				return entity.ErrNotFound
			}
		}
		if len(perms) == 0 {
			return tx.Model(g).Association("Permissions").Clear()
		}
		return tx.Model(g).Association("Permissions").Replace(perms)
	})
}

func (r *UserRepository) ListPermissions(ctx context.Context) ([]entity.Permission, error) {
	var ps []entity.Permission
	err := r.db.WithContext(ctx).Order("id").Find(&ps).Error
	return ps, err
}

// EnsurePermissions inserts any missing codenames.
func (r *UserRepository) EnsurePermissions(ctx context.Context, perms []entity.Permission) error {
	for i := range perms {
		p := perms[i]
		if err := r.db.WithContext(ctx).Where(entity.Permission{Codename: p.Codename}).FirstOrCreate(&p).Error; err != nil {
			return err
		}
	}
	return nil
}
