package portal

import "testing"

func fixtureTilesFile() *TilesFile {
	tf := &TilesFile{
		Tiles: []Tile{
			{Name: "a", URL: "https://a.example"},
			{Name: "b", URL: "https://b.example"},
			{Name: "f1"}, {Name: "f2"}, {Name: "f3"}, {Name: "f4"}, {Name: "f5"},
			{Name: "start"},
			{Name: "tail"},
		},
		AlwaysVisible: []string{"a", "b", "missing"},
		OtherStart:    "start",
	}
	tf.Folder.Name = "その他"
	tf.Folder.Tiles = []string{"f1", "f2", "f3", "f4", "f5", "missing"}
	return tf
}

func TestBuildLayout_Always(t *testing.T) {
	layout := BuildLayout(fixtureTilesFile())
	if len(layout.Always) != 2 {
		t.Fatalf("unknown names must be skipped, got %d tiles", len(layout.Always))
	}
	if layout.Always[0].Name != "a" || layout.Always[1].Name != "b" {
		t.Errorf("order must follow the name list: %+v", layout.Always)
	}
}

func TestBuildLayout_FolderPreview(t *testing.T) {
	layout := BuildLayout(fixtureTilesFile())
	if layout.Folder.Name != "その他" {
		t.Errorf("folder name = %q", layout.Folder.Name)
	}
	if len(layout.Folder.Tiles) != 5 {
		t.Errorf("folder tiles = %d", len(layout.Folder.Tiles))
	}
	if len(layout.Folder.Preview) != 4 {
		t.Errorf("preview must hold at most 4 tiles, got %d", len(layout.Folder.Preview))
	}
}

func TestBuildLayout_OtherExcludesFolder(t *testing.T) {
	tf := fixtureTilesFile()
	// Start inside the folder block so the exclusion is exercised.
	tf.OtherStart = "f4"
	layout := BuildLayout(tf)
	if len(layout.Other) != 2 {
		t.Fatalf("expected [start tail], got %+v", layout.Other)
	}
	if layout.Other[0].Name != "start" || layout.Other[1].Name != "tail" {
		t.Errorf("folder tiles leaked into other section: %+v", layout.Other)
	}
}

func TestBuildLayout_MissingStartMarker(t *testing.T) {
	tf := fixtureTilesFile()
	tf.OtherStart = "nope"
	layout := BuildLayout(tf)
	if len(layout.Other) != 0 {
		t.Errorf("missing marker must yield an empty other section, got %+v", layout.Other)
	}
}
