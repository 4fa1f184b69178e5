package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/safar/gymwear-api/internal/database"
	"github.com/safar/gymwear-api/internal/models"
	"github.com/safar/gymwear-api/internal/store"
)

func passwordMatches(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

func TestUserLifecycle(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, db, "lifecycle@example.com")

	if user.Role != models.RoleCustomer {
		t.Errorf("Expected default role customer, got %q", user.Role)
	}
	if !passwordMatches(user, "correct-horse") {
		t.Error("Stored hash should match the original password")
	}

	_, err := store.CreateUser(ctx, db, store.UserInput{Name: "Dup", Email: "lifecycle@example.com"})
	if !database.IsUniqueViolation(err) {
		t.Errorf("Expected unique violation for duplicate email, got %v", err)
	}

	// Updating without a password keeps the old hash.
	updated, err := store.UpdateUser(ctx, db, user.ID, store.UserInput{
		Name:  "Renamed",
		Email: user.Email,
		Role:  models.RoleStaff,
		Phone: "+57 300 000 0000",
	})
	if err != nil {
		t.Fatalf("Update user: %v", err)
	}
	if updated.Name != "Renamed" || updated.Role != models.RoleStaff {
		t.Errorf("Unexpected user after update: %+v", updated)
	}
	if !passwordMatches(updated, "correct-horse") {
		t.Error("Password hash should survive an update without a password")
	}

	if err := store.DeleteUser(ctx, db, user.ID); err != nil {
		t.Fatalf("Delete user: %v", err)
	}
	if _, err := store.GetUser(ctx, db, user.ID); !errors.Is(err, database.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestCategoryAndProduct(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	parent, err := store.CreateCategory(ctx, db, store.CategoryInput{Name: "Ropa Deportiva"})
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}
	if parent.Slug != "ropa-deportiva" {
		t.Errorf("Expected generated slug ropa-deportiva, got %q", parent.Slug)
	}

	child, err := store.CreateCategory(ctx, db, store.CategoryInput{ParentID: &parent.ID, Name: "Camisetas", Slug: "camisetas-hombre"})
	if err != nil {
		t.Fatalf("Create child category: %v", err)
	}
	if child.ParentID == nil || *child.ParentID != parent.ID {
		t.Errorf("Expected parent %d, got %v", parent.ID, child.ParentID)
	}

	product, err := store.CreateProduct(ctx, db, store.ProductInput{
		CategoryID: child.ID,
		Name:       "Camiseta Técnica",
		BasePrice:  decimal.RequireFromString("24.90"),
		Active:     true,
	})
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}
	if product.Slug != "camiseta-tecnica" {
		t.Errorf("Expected slug camiseta-tecnica, got %q", product.Slug)
	}

	_, err = store.CreateProduct(ctx, db, store.ProductInput{CategoryID: 9999, Name: "Orphan"})
	if !database.IsForeignKeyViolation(err) {
		t.Errorf("Expected foreign key violation for unknown category, got %v", err)
	}

	_, err = store.CreateProduct(ctx, db, store.ProductInput{CategoryID: child.ID, Name: "Negative", BasePrice: decimal.NewFromInt(-1)})
	if !database.IsConstraintViolation(err) {
		t.Errorf("Expected check violation for negative price, got %v", err)
	}

	updated, err := store.UpdateProduct(ctx, db, product.ID, store.ProductInput{
		Name:      "Camiseta Técnica Pro",
		BasePrice: decimal.RequireFromString("29.90"),
		Active:    false,
	})
	if err != nil {
		t.Fatalf("Update product: %v", err)
	}
	if updated.CategoryID != child.ID {
		t.Errorf("Zero category_id should keep the category, got %d", updated.CategoryID)
	}

	active, err := store.ListProducts(ctx, db, store.ProductFilter{ActiveOnly: true}, 1, 20)
	if err != nil {
		t.Fatalf("List active products: %v", err)
	}
	if active.Total != 0 {
		t.Errorf("Expected no active products, got %d", active.Total)
	}

	byCategory, err := store.ListProducts(ctx, db, store.ProductFilter{CategoryID: child.ID}, 1, 20)
	if err != nil {
		t.Fatalf("List products by category: %v", err)
	}
	if byCategory.Total != 1 {
		t.Errorf("Expected 1 product in category, got %d", byCategory.Total)
	}

	if err := store.DeleteCategory(ctx, db, child.ID); !database.IsForeignKeyViolation(err) {
		t.Errorf("Deleting a category with products should fail, got %v", err)
	}

	// Removing the parent detaches the child instead of deleting it.
	if err := store.DeleteCategory(ctx, db, parent.ID); err != nil {
		t.Fatalf("Delete parent category: %v", err)
	}
	orphan, err := store.GetCategory(ctx, db, child.ID)
	if err != nil {
		t.Fatalf("Get child category: %v", err)
	}
	if orphan.ParentID != nil {
		t.Errorf("Expected parent_id to be cleared, got %d", *orphan.ParentID)
	}
}
