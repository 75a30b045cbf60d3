package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
)

// Fixed subfolder names inside a project folder
const (
	FolderLocations = "Locations"
	FolderContracts = "Contracts"
	FolderReports   = "Reports"
	FolderExpenses  = "Expenses"
)

// ReportFolder names the folder of one progress report
func ReportFolder(number int) string {
	return fmt.Sprintf("Report %d", number)
}

// Folders lays out project files as
// <root>/<code> - <acronym>/<category>[/<sub>...].
type Folders struct {
	store ObjectStore
	root  string
}

// NewFolders creates a folder resolver rooted at root
func NewFolders(store ObjectStore, root string) *Folders {
	return &Folders{store: store, root: root}
}

// Project ensures the project's own folder and returns its id
func (f *Folders) Project(ctx context.Context, p *domain.Project) (string, error) {
	parent := ""
	if f.root != "" {
		rootID, err := f.store.EnsureFolder(ctx, f.root, "")
		if err != nil {
			return "", fmt.Errorf("failed to ensure root folder: %w", err)
		}
		parent = rootID
	}
	id, err := f.store.EnsureFolder(ctx, p.FolderName(), parent)
	if err != nil {
		return "", fmt.Errorf("failed to ensure project folder: %w", err)
	}
	return id, nil
}

// Ensure walks path below the project folder, creating each level
func (f *Folders) Ensure(ctx context.Context, p *domain.Project, path ...string) (string, error) {
	id, err := f.Project(ctx, p)
	if err != nil {
		return "", err
	}
	for _, name := range path {
		id, err = f.store.EnsureFolder(ctx, name, id)
		if err != nil {
			return "", fmt.Errorf("failed to ensure folder %q: %w", name, err)
		}
	}
	return id, nil
}

// ProjectCodeOf recovers the project code from an object id laid out by
// Folders. It reports false for ids outside any project folder.
func (f *Folders) ProjectCodeOf(fileID string) (string, bool) {
	rest := strings.TrimPrefix(fileID, "/")
	if f.root != "" {
		if !strings.HasPrefix(rest, f.root+"/") {
			return "", false
		}
		rest = strings.TrimPrefix(rest, f.root+"/")
	}
	folder, _, ok := strings.Cut(rest, "/")
	if !ok {
		return "", false
	}
	code, _, ok := strings.Cut(folder, " - ")
	if !ok || code == "" {
		return "", false
	}
	return code, true
}
