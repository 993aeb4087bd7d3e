package services_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newriverone/portal/configs"
	impl "github.com/newriverone/portal/internal/application/services"
)

const tilesYAML = `tiles:
  - name: 勤怠
    url: https://example.com/kintai
  - name: 経費
    url: https://example.com/keihi
always_visible:
  - 勤怠
folder:
  name: その他
  tiles:
    - 経費
other_start: 経費
`

func writeTiles(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "tiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPortalService_LoadsInitialLayout(t *testing.T) {
	path := writeTiles(t, t.TempDir(), tilesYAML)
	svc, err := impl.NewPortalService(&configs.PortalConfig{TilesFile: path, Watch: false}, nil)
	require.NoError(t, err)
	defer svc.Close()

	layout := svc.Layout()
	require.Len(t, layout.Always, 1)
	assert.Equal(t, "勤怠", layout.Always[0].Name)
	assert.Equal(t, "その他", layout.Folder.Name)
}

func TestPortalService_MissingFileFails(t *testing.T) {
	_, err := impl.NewPortalService(&configs.PortalConfig{TilesFile: filepath.Join(t.TempDir(), "nope.yaml"), Watch: false}, nil)
	assert.Error(t, err)
}

func TestPortalService_ReloadsOnRewrite(t *testing.T) {
	dir := t.TempDir()
	path := writeTiles(t, dir, tilesYAML)
	svc, err := impl.NewPortalService(&configs.PortalConfig{TilesFile: path, Watch: true}, nil)
	require.NoError(t, err)
	defer svc.Close()

	updated := `tiles:
  - name: 勤怠
    url: https://example.com/kintai
  - name: 経費
    url: https://example.com/keihi
always_visible:
  - 勤怠
  - 経費
folder:
  name: その他
  tiles: []
other_start: 経費
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	require.Eventually(t, func() bool {
		return len(svc.Layout().Always) == 2
	}, 3*time.Second, 20*time.Millisecond, "rewritten tiles file must be picked up")
}

func TestPortalService_BrokenEditKeepsPreviousLayout(t *testing.T) {
	dir := t.TempDir()
	path := writeTiles(t, dir, tilesYAML)
	svc, err := impl.NewPortalService(&configs.PortalConfig{TilesFile: path, Watch: true}, nil)
	require.NoError(t, err)
	defer svc.Close()

	require.NoError(t, os.WriteFile(path, []byte("tiles: ["), 0o644))

	// Give the watcher a chance to see the broken write.
	time.Sleep(200 * time.Millisecond)
	layout := svc.Layout()
	require.Len(t, layout.Always, 1)
	assert.Equal(t, "勤怠", layout.Always[0].Name)
}
