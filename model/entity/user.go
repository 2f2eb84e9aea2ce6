package entity

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(150);not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"type:varchar(254)" json:"email"`
	PasswordHash string    `gorm:"type:varchar(128);not null" json:"-"`
	IsStaff      bool      `gorm:"not null;default:false" json:"is_staff"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	Groups       []Group   `gorm:"many2many:auth_user_groups" json:"groups"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "auth_users"
}

// Group is a role. Low-stock alerts go to the members of one named group.
type Group struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(150);not null;uniqueIndex" json:"name"`
	Permissions []Permission `gorm:"many2many:auth_group_permissions" json:"permissions"`
}

func (Group) TableName() string {
	return "auth_groups"
}

type Permission struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Codename string `gorm:"type:varchar(100);not null;uniqueIndex" json:"codename"`
}

func (Permission) TableName() string {
	return "auth_permissions"
}

// APIToken is a bearer credential for AUTH_TYPE=token.
type APIToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	Token     string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	Revoked   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (APIToken) TableName() string {
	return "api_tokens"
}

// DefaultPermissions are seeded by db:migrate.
var DefaultPermissions = []Permission{
	{Name: "Can view catalog", Codename: "view_catalog"},
	{Name: "Can change catalog", Codename: "change_catalog"},
	{Name: "Can adjust stock", Codename: "adjust_stock"},
	{Name: "Can manage purchase orders", Codename: "manage_purchase_orders"},
	{Name: "Can manage sales orders", Codename: "manage_sales_orders"},
	{Name: "Receives low stock alerts", Codename: "receive_low_stock_alerts"},
}
