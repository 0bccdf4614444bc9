package auth

import (
	"errors"

	"equitymd-backend/internal/models"
	"equitymd-backend/internal/pkg/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginInput for login request body.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupInput for signup request body.
type SignupInput struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	CompanyName string `json:"company_name"`
}

// SessionUserShape is the object stored in session and returned by /me.
type SessionUserShape struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// ProfileFinder abstracts credential verification for handlers and tests.
type ProfileFinder interface {
	FindByEmailAndPassword(email, password string) (*models.Profile, error)
}

// GormProfileFinder implements ProfileFinder using GORM and bcrypt.
type GormProfileFinder struct{ DB *gorm.DB }

func (g *GormProfileFinder) FindByEmailAndPassword(email, password string) (*models.Profile, error) {
	return LoginProfile(g.DB, LoginInput{Email: email, Password: password})
}

// LoginProfile finds a profile by email and verifies the password.
func LoginProfile(db *gorm.DB, input LoginInput) (*models.Profile, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrEmailPasswordRequired
	}
	var p models.Profile
	if err := db.Where("email = ?", input.Email).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidEmail
		}
		return nil, err
	}
	if p.PasswordHash == "" {
		return nil, ErrInvalidEmail
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return &p, nil
}

// SignupProfile creates a new investor or syndicator profile.
func SignupProfile(db *gorm.DB, input SignupInput) (*models.Profile, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrEmailPasswordRequired
	}
	if !validation.IsValidEmail(input.Email) {
		return nil, ErrInvalidEmail
	}
	if !validation.IsValidPassword(input.Password) {
		return nil, ErrWeakPassword
	}
	if input.Role != models.RoleInvestor && input.Role != models.RoleSyndicator {
		return nil, ErrInvalidRole
	}

	var count int64
	if err := db.Model(&models.Profile{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	p := models.Profile{
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
		CompanyName:  input.CompanyName,
	}
	if err := db.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// VerifyUser validates the session user and returns the shape for /me.
func VerifyUser(sessionUser interface{}) (*SessionUserShape, error) {
	if sessionUser == nil {
		return nil, ErrNotAuthenticated
	}
	m, ok := sessionUser.(map[string]interface{})
	if !ok {
		return nil, ErrNotAuthenticated
	}
	userID, _ := m["user_id"].(string)
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	return &SessionUserShape{
		UserID:   userID,
		FullName: str(m["full_name"]),
		Email:    str(m["email"]),
		Role:     str(m["role"]),
	}, nil
}

func str(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
