package models

import "time"

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Bio          string    `json:"bio"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	AccountInfo  AccountInfo `json:"account_info"`
	Blogs        []string  `json:"blogs"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AccountInfo — агрегаты по автору. Меняются только как побочный эффект
// публикации и просмотров, напрямую автором не редактируются.
type AccountInfo struct {
	TotalPosts int64 `json:"total_posts"`
	TotalReads int64 `json:"total_reads"`
}

type UserProfileResponse struct {
	ID          int         `json:"id"`
	Username    string      `json:"username"`
	FullName    string      `json:"full_name"`
	Bio         string      `json:"bio"`
	AccountInfo AccountInfo `json:"account_info"`
	CreatedAt   time.Time   `json:"created_at"`
}
