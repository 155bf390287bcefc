package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"grana/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", nextID()),
		Password: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTag creates a tag with the given name.
func CreateTestTag(t *testing.T, db *gorm.DB, name string) *models.Tag {
	t.Helper()

	tag := &models.Tag{Name: name}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create test tag: %v", err)
	}
	return tag
}

// SeedDefaultTags creates the tags normally inserted by the seed migration.
func SeedDefaultTags(t *testing.T, db *gorm.DB) []models.Tag {
	t.Helper()

	names := []string{
		"Mercado", "Restaurante", "Casa", "Academia e Saúde",
		"Transporte", "Lazer e Entretenimento", "Outros",
	}
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		tags = append(tags, *CreateTestTag(t, db, name))
	}
	return tags
}

// CreateTestTransaction creates a transaction of the given type and value
// (in cents) dated on the given day.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, txType models.TransactionType, value int64, day string) *models.Transaction {
	t.Helper()

	date, err := time.Parse(time.DateOnly, day)
	if err != nil {
		t.Fatalf("invalid test date %q: %v", day, err)
	}

	tx := &models.Transaction{
		UserID: userID,
		Name:   fmt.Sprintf("Test Transaction %d", nextID()),
		Value:  value,
		Date:   date,
		Type:   txType,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
