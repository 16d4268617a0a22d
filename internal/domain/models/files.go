package models

// Folder is a directory of the storage bucket, addressed by path.
type Folder struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// FileEntry is an object of the storage bucket.
type FileEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	URL         string `json:"url,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

// Document is a binary payload returned by print endpoints.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}
