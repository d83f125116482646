package models

import "time"

// Thread is one forum thread as returned by the Ed Discussion API.
// It is an immutable snapshot: fetched once per run, never written back.
type Thread struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	Category     string     `json:"category"`
	Subcategory  string     `json:"subcategory"`
	User         ThreadUser `json:"user"`
	CreatedAt    time.Time  `json:"created_at"`
	Document     string     `json:"document"`
	Content      string     `json:"content"`
	CommentCount int        `json:"comment_count"`
	VoteCount    int        `json:"vote_count"`
	ViewCount    int        `json:"view_count"`
	Comments     []Comment  `json:"comments,omitempty"`
	Files        []File     `json:"files,omitempty"`
}

// ThreadUser is the author record embedded in a thread.
type ThreadUser struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Role string `json:"course_role,omitempty"`
}

// Comment is a reply under a thread. Only file attachments are consumed
// downstream, but the body is kept for the raw export.
type Comment struct {
	ID        int        `json:"id"`
	User      ThreadUser `json:"user"`
	Document  string     `json:"document"`
	CreatedAt time.Time  `json:"created_at"`
	Files     []File     `json:"files,omitempty"`
}

// File is an attachment hosted by Ed.
type File struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// Body returns the rich-text document of the thread. Some API responses
// carry it under document, older ones under content.
func (t *Thread) Body() string {
	if t.Document != "" {
		return t.Document
	}
	return t.Content
}

// AuthorName returns the author display name, or a placeholder when the
// record has no user block (anonymous posts).
func (t *Thread) AuthorName() string {
	if t.User.Name == "" {
		return "Unknown"
	}
	return t.User.Name
}

// Attachments collects files from the thread body and all its comments.
func (t *Thread) Attachments() []File {
	var files []File
	files = append(files, t.Files...)
	for _, c := range t.Comments {
		files = append(files, c.Files...)
	}
	return files
}
