package backup

import (
	"bytes"
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	rootBackupsFolderName = "calisthenics-backup"
	folderMimeType        = "application/vnd.google-apps.folder"
)

// DriveUploader stores backup files in a single google drive folder.
type DriveUploader struct {
	service  *drive.Service
	folderID string
}

// NewDriveUploader finds the backups folder, creating it if missing. A
// non-empty folderID skips the lookup.
func NewDriveUploader(ctx context.Context, folderID string, opts ...option.ClientOption) (*DriveUploader, error) {
	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve drive client: %w", err)
	}

	u := &DriveUploader{
		service:  driveService,
		folderID: folderID,
	}
	if folderID != "" {
		return u, nil
	}

	rootFolderQuery := fmt.Sprintf("mimeType = '%s' and trashed = false and name = '%s'", folderMimeType, rootBackupsFolderName)
	folders, err := driveService.Files.List().
		Q(rootFolderQuery).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve files: %w", err)
	}

	switch len(folders.Files) {
	case 0:
		log.Println("root backups folder not found, creating ...")
		created, err := driveService.Files.Create(&drive.File{
			Name:     rootBackupsFolderName,
			MimeType: folderMimeType,
		}).Fields("id").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("create root backups folder: %w", err)
		}
		u.folderID = created.Id
	case 1:
		u.folderID = folders.Files[0].Id
	default:
		log.Warnf("found %d root backups folders, will take the first one: %s", len(folders.Files), folders.Files[0].Id)
		u.folderID = folders.Files[0].Id
	}

	log.Debugf("drive backups folder: %s", u.folderID)
	return u, nil
}

// Upload stores content as a new json file and returns its drive id.
func (u *DriveUploader) Upload(ctx context.Context, name string, content []byte) (string, error) {
	file, err := u.service.Files.Create(&drive.File{
		Name:     name,
		MimeType: "application/json",
		Parents:  []string{u.folderID},
	}).
		Media(bytes.NewReader(content)).
		Fields("id, parents").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return file.Id, nil
}
