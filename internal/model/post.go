package model

import "time"

type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Body      string    `json:"body" gorm:"not null"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`
	AuthorID  uint      `json:"author_id" gorm:"index;not null"`
	Author    *User     `json:"-"`
	Comments  []Comment `json:"-" gorm:"foreignKey:PostID"`
}

type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Body      string    `json:"body" gorm:"not null"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`
	Disabled  bool      `json:"disabled" gorm:"default:false"`
	AuthorID  uint      `json:"author_id" gorm:"index;not null"`
	Author    *User     `json:"-"`
	PostID    uint      `json:"post_id" gorm:"index;not null"`
	Post      *Post     `json:"-"`
}
