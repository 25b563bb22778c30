package model

import "time"

type List struct {
	ID        int64     `json:"id"`
	Title     string    `json:"list_title"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Item struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	UserID    int64     `json:"user_id"`
	ListID    *int64    `json:"list_id"`
	CreatedAt time.Time `json:"created_at"`
}
