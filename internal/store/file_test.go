package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"custodyx/internal/types"
)

func TestFileStoreMissingFilesReadEmpty(t *testing.T) {
	st := NewFileStore(t.TempDir())
	ctx := context.Background()

	reports, err := st.Reports(ctx)
	require.NoError(t, err)
	require.Empty(t, reports)

	profile, err := st.Profile(ctx)
	require.NoError(t, err)
	require.Nil(t, profile)
}

func TestFileStoreCorruptFileReadsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reports.json"), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profile.json"), []byte("[]"), 0o644))

	st := NewFileStore(dir)
	ctx := context.Background()

	reports, err := st.Reports(ctx)
	require.NoError(t, err)
	require.Empty(t, reports)

	profile, err := st.Profile(ctx)
	require.NoError(t, err)
	require.Nil(t, profile)
}

func TestFileStoreDocumentRoundTrip(t *testing.T) {
	st := NewFileStore(t.TempDir())
	ctx := context.Background()

	payload := "JVBERi0xLjQKJcfsj6IKNSAwIG9iago8PC9MZW5ndGg+Pg=="
	doc := types.StoredDocument{ID: "d1", Name: "exhibit-a.pdf", MimeType: "application/pdf", Data: payload}
	require.NoError(t, st.CreateDocument(ctx, doc))

	got, err := st.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, payload, got[0].Data)
	require.Equal(t, "application/pdf", got[0].MimeType)
	require.False(t, got[0].CreatedAt.IsZero())
}

func TestFileStoreCreateDeleteSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	st := NewFileStore(dir)
	require.NoError(t, st.CreateReport(ctx, types.Report{
		ID: "r1",
		GeneratedReportData: types.GeneratedReportData{
			Content: "### Summary of Events\n...", Category: types.CategoryMissedVisitation, Tags: []string{"weekend"},
		},
	}))
	require.NoError(t, st.CreateReport(ctx, types.Report{
		ID: "r2",
		GeneratedReportData: types.GeneratedReportData{
			Content: "x", Category: types.CategoryOther, Tags: []string{},
		},
	}))
	require.NoError(t, st.DeleteReport(ctx, "r1"))
	require.NoError(t, st.DeleteReport(ctx, "missing"))

	reopened := NewFileStore(dir)
	got, err := reopened.Reports(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "r2", got[0].ID)
}

func TestFileStoreProfileUpsert(t *testing.T) {
	st := NewFileStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, st.SaveProfile(ctx, types.UserProfile{Name: "Sam", Role: "Father", Children: []string{"Lee"}}))
	require.NoError(t, st.SaveProfile(ctx, types.UserProfile{Name: "Sam", Role: "Father", Children: []string{"Lee", "Kit"}}))

	got, err := st.Profile(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, []string{"Lee", "Kit"}, got.Children)
}
