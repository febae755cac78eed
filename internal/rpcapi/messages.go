package rpcapi

import "time"

type Entry struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type RegisterResponse struct {
	User *User `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User         *User     `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type ListEntriesRequest struct{}

type ListEntriesResponse struct {
	Entries []*Entry `json:"entries"`
}

type AddEntryRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type AddEntryResponse struct {
	Entry *Entry `json:"entry"`
}

type DeleteEntryRequest struct {
	ID int64 `json:"id"`
}

type DeleteEntryResponse struct {
	Success bool `json:"success"`
}

// UpdateEntryRequest changes only the fields that are set.
type UpdateEntryRequest struct {
	ID      int64   `json:"id"`
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

type UpdateEntryResponse struct {
	Entry *Entry `json:"entry"`
}

type ExportEntriesRequest struct{}

type ExportEntriesResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
