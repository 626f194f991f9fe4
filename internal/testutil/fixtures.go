package testutil

import (
	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/fellowshipfinder/backend/internal/utils"
)

// CreateTestUser creates a user with a hashed password
func CreateTestUser(username, email, password string, role models.Role) (*models.User, error) {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
	}, nil
}

// DefaultTestUser returns a default test user (regular user)
func DefaultTestUser() (*models.User, error) {
	return CreateTestUser("testuser", "test@example.com", "Test123456", models.RoleUser)
}

// DefaultAdminUser returns a default admin user
func DefaultAdminUser() (*models.User, error) {
	return CreateTestUser("admin", "admin@example.com", "Admin123456", models.RoleAdmin)
}

// CreateTestPin creates a pin owned by the given username
func CreateTestPin(username, title string) *models.Pin {
	return &models.Pin{
		Username: username,
		Title:    title,
		ImageURL: "https://example.com/image.jpg",
	}
}

// CreateTestBlogPost creates a blog post; published unless stated otherwise
func CreateTestBlogPost(author, title, content string, published bool) *models.BlogPost {
	return &models.BlogPost{
		AuthorUsername: author,
		Title:          title,
		Content:        content,
		IsPublished:    published,
	}
}

// CreateTestItem creates an active marketplace listing
func CreateTestItem(seller, title string, price float64) *models.MarketplaceItem {
	return &models.MarketplaceItem{
		SellerUsername: seller,
		Title:          title,
		Price:          price,
		IsActive:       true,
	}
}
