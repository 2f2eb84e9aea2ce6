package alert_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"inventory.GO/config"
	"inventory.GO/model/entity"
	catalogRepo "inventory.GO/model/repository/catalog"
	userRepo "inventory.GO/model/repository/user"
	"inventory.GO/model/testdb"
	"inventory.GO/service/alert"
	"inventory.GO/service/ledger"
)

type fakeMailer struct {
	mu     sync.Mutex
	sent   []alert.Message
	failTo string
}

func (m *fakeMailer) Send(_ context.Context, msg alert.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg.To == m.failTo {
		return errors.New("mailbox unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func seedGroup(t *testing.T, db *gorm.DB, name string, users ...entity.User) {
	t.Helper()
	g := entity.Group{Name: name}
	require.NoError(t, db.Create(&g).Error)
	for i := range users {
		users[i].PasswordHash = "x"
		users[i].Groups = []entity.Group{g}
		require.NoError(t, db.Create(&users[i]).Error)
	}
}

func TestLowStockMessage(t *testing.T) {
	subject, body := alert.LowStockMessage(entity.ProductVariation{SKUCode: "TSHIRT-RED-M", StockLevel: 3, ReorderLevel: 10})
	assert.Equal(t, "Low Stock Alert: TSHIRT-RED-M", subject)
	assert.Equal(t, "LOW STOCK ALERT: 'TSHIRT-RED-M' is at 3 units (Reorder level is 10).", body)
}

func TestRunDailyCheck_MailsEachFlaggedItemToEachRecipient(t *testing.T) {
	db := testdb.Open(t)
	testdb.Variation(t, db, "LOW-A", 2, 10)
	testdb.Variation(t, db, "LOW-B", 10, 10)
	testdb.Variation(t, db, "FINE-C", 50, 10)
	seedGroup(t, db, "Warehouse Manager",
		entity.User{Username: "alice", Email: "alice@example.com", IsActive: true},
		entity.User{Username: "bob", Email: "bob@example.com", IsActive: true},
		entity.User{Username: "carol", Email: "", IsActive: true},
		entity.User{Username: "dave", Email: "dave@example.com", IsActive: false},
	)
	seedGroup(t, db, "Sales", entity.User{Username: "erin", Email: "erin@example.com", IsActive: true})

	core, logs := observer.New(zapcore.InfoLevel)
	mailer := &fakeMailer{failTo: "bob@example.com"}
	n := alert.NewNotifier(
		ledger.New(catalogRepo.NewVariationRepository(db), nil),
		userRepo.NewUserRepository(db),
		mailer, "Warehouse Manager", 3, zap.New(core),
	)

	sum, err := n.RunDailyCheck(context.Background())
	require.NoError(t, err, "delivery failures are not returned")
	assert.EqualValues(t, 3, sum.Scanned)
	assert.Equal(t, 2, sum.Flagged)
	assert.EqualValues(t, 2, sum.Sent)
	assert.EqualValues(t, 2, sum.Failed)
	assert.NotEmpty(t, sum.RunID)
	assert.Equal(t, "Checked 3 items, 2 low stock", sum.String())

	var subjects []string
	for _, m := range mailer.sent {
		assert.Equal(t, "alice@example.com", m.To)
		subjects = append(subjects, m.Subject)
	}
	sort.Strings(subjects)
	assert.Equal(t, []string{"Low Stock Alert: LOW-A", "Low Stock Alert: LOW-B"}, subjects)

	assert.Equal(t, 2, logs.FilterMessage("low stock alert delivery failed").Len())
}

func TestRunDailyCheck_NothingLow(t *testing.T) {
	db := testdb.Open(t)
	testdb.Variation(t, db, "FINE-A", 50, 10)
	mailer := &fakeMailer{}
	n := alert.NewNotifier(
		ledger.New(catalogRepo.NewVariationRepository(db), nil),
		userRepo.NewUserRepository(db),
		mailer, "Warehouse Manager", 2, nil,
	)

	sum, err := n.RunDailyCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Checked 1 items, 0 low stock", sum.String())
	assert.Empty(t, mailer.sent)
}

func TestLogMailer(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m, err := alert.NewMailer(configMail("console"), zap.New(core))
	require.NoError(t, err)
	require.NoError(t, m.Send(context.Background(), alert.Message{To: "a@example.com", Subject: "s", Body: "b"}))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "a@example.com", logs.All()[0].ContextMap()["to"])

	_, err = alert.NewMailer(configMail("smtp"), nil)
	assert.Error(t, err, "smtp without host")
	_, err = alert.NewMailer(configMail("pigeon"), nil)
	assert.Error(t, err)
}

func configMail(backend string) config.MailConfig {
	return config.MailConfig{Backend: backend, From: "noreply@inventory.com", SMTPPort: 587}
}
