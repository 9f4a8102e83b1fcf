package domain

// Roles assignable to a user.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the local record backing an externally authenticated identity.
// UID is the identity provider's id; ID is the local database id every
// other document references.
type User struct {
	ID              string   `json:"_id"`
	UID             string   `json:"uid"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Role            string   `json:"role"`
	Phone           string   `json:"phone,omitempty"`
	Education       string   `json:"education,omitempty"`
	CountriesChosen []string `json:"countriesChosen"`
	Courses         []string `json:"courses"`
	Universities    []string `json:"universities"`
	Image           string   `json:"image,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DirectoryEntry is the minimal user projection used to start chats.
type DirectoryEntry struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// SignupRequest registers an externally authenticated identity locally.
type SignupRequest struct {
	UID      string `json:"uid" binding:"required"`
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// CheckUserRequest looks up the local record for a provider id.
type CheckUserRequest struct {
	UID string `json:"uid" binding:"required"`
}

// RoleRequest promotes or demotes a user by email.
type RoleRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ApplyCourseRequest records a chosen country, course, and universities.
type ApplyCourseRequest struct {
	Country      string   `json:"country" binding:"required"`
	Course       string   `json:"course" binding:"required"`
	Universities []string `json:"universities"`
}

// RemoveCourseRequest removes one chosen course.
type RemoveCourseRequest struct {
	Course string `json:"course" binding:"required"`
}

// RemoveCountryRequest removes one chosen country.
type RemoveCountryRequest struct {
	Country string `json:"country" binding:"required"`
}

// RemoveUniversityRequest removes one chosen university.
type RemoveUniversityRequest struct {
	University string `json:"university" binding:"required"`
}

// UpdatePhoneRequest changes the profile phone number.
type UpdatePhoneRequest struct {
	Phone string `json:"phone" binding:"required,max=32"`
}

// UpdateEducationRequest changes the profile education summary.
type UpdateEducationRequest struct {
	Education string `json:"education" binding:"required,max=200"`
}

// Session is the payload returned after a successful identity exchange.
type Session struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}
