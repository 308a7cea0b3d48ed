package entity

// User профиль текущего пользователя (GET /users/profile).
type User struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	FullName       string  `json:"fullName"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
	Role           string  `json:"role,omitempty"`
	IsSeller       bool    `json:"isSeller"`
	PhoneNumber    *string `json:"phoneNumber,omitempty"`
	Bio            *string `json:"bio,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == "ADMIN"
}

// UserSummary вложенное описание участника заказа.
type UserSummary struct {
	ID             string  `json:"id"`
	FullName       string  `json:"fullName"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}
