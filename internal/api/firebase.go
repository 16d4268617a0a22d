package api

import (
	"context"
	"net/http"

	"backoffice/internal/apiclient"
	"backoffice/internal/domain/models"
)

// FireBase browses the storage bucket by path.
type FireBase struct{ base }

func (f *FireBase) FoldersInPath(ctx context.Context, folderPath string) ([]models.Folder, error) {
	var out []models.Folder
	err := f.decode(ctx, &apiclient.Request{
		Method: http.MethodGet,
		Path:   "/firebase/folders-in-path",
		Query:  apiclient.Query{}.Add("folderPath", folderPath),
	}, &out)
	return out, err
}

func (f *FireBase) FilesInFolder(ctx context.Context, filePath string) ([]models.FileEntry, error) {
	var out []models.FileEntry
	err := f.decode(ctx, &apiclient.Request{
		Method: http.MethodGet,
		Path:   "/firebase/files-in-folder",
		Query:  apiclient.Query{}.Add("filePath", filePath),
	}, &out)
	return out, err
}

func (f *FireBase) CreateFolder(ctx context.Context, folderPath string) error {
	return f.exec(ctx, &apiclient.Request{
		Method: http.MethodPost,
		Path:   "/firebase/create-folder",
		Query:  apiclient.Query{}.Add("folderPath", folderPath),
	})
}
