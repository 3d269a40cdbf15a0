package db

import (
	"fmt"
	"os"
	"testing"

	"github.com/tfkr-ae/souk/domain"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()

	tempFile, err := os.CreateTemp(t.TempDir(), "test_*.db")
	if err != nil {
		t.Fatalf("os.CreateTemp() failed: %v", err)
	}
	tempFile.Close()

	dbConn, err := New(tempFile.Name())
	if err != nil {
		t.Fatalf("db.New() failed: %v", err)
	}

	repo := NewMarketRepo(dbConn)

	teardown := func() {
		repo.Close()
		os.Remove(tempFile.Name())
	}

	return repo, teardown
}

func testPackage(t *testing.T, repo *Repository, name string) *domain.Package {
	t.Helper()

	pkg := &domain.Package{
		Name:            name,
		Title:           fmt.Sprintf("Title for %s", name),
		Description:     "A test package",
		Author:          "souk-tests",
		Image:           "preview.png",
		Tags:            []string{"dark", "minimal"},
		Version:         "1.0.0",
		BackgroundImage: "bg.png",
		BackgroundVideo: "",
		Payload:         "body { color: red; }",
		Type:            domain.TypeTheme,
	}

	err := repo.CreatePackage(pkg)
	if err != nil {
		t.Fatalf("inserting package: %v", err)
	}
	return pkg
}
