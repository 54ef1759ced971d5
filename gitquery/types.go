package gitquery

import "time"

// AuthoredFile is one path touched by an author, with the date of the
// author's most recent commit to it.
type AuthoredFile struct {
	Path           string    `json:"path"`
	Author         string    `json:"author"`
	LastModified   string    `json:"lastModified"`
	LastModifiedAt time.Time `json:"lastModifiedAt"`
}

// ListOptions selects whose files to list and from which ref.
// An empty Branch means all refs.
type ListOptions struct {
	RepoPath    string `json:"repoPath"`
	AuthorEmail string `json:"authorEmail"`
	Branch      string `json:"branch,omitempty"`
}
