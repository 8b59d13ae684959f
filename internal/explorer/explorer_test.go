package explorer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rerite/openscience-explorer/internal/config"
)

const tableCSV = `doi,doi_url,year,journal,lda_topic,tsne_x,tsne_y,is_code_publicly_available,is_data_repository_available,code_link,links_to_the_data_repository
10.1/a,https://doi.org/10.1/a,2021,TR-C,Traffic,1,2,True,False,['https://github.com/a/b'],[]
10.1/b,https://doi.org/10.1/b,2019,TR-B,Safety,3,4,False,True,[],['https://zenodo.org/1']
10.1/c,https://doi.org/10.1/c,2018,TR-A,Safety,,4,True,True,[],[]
`

// testConfig writes a table and one side-file under a temp dir.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.TablePath = filepath.Join(dir, "data", "dashboard.csv")
	cfg.MetaDir = filepath.Join(dir, "meta")
	cfg.OutputPath = filepath.Join(dir, "out", "explorer.html")

	for _, d := range []string{filepath.Dir(cfg.TablePath), cfg.MetaDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(cfg.TablePath, []byte(tableCSV), 0644); err != nil {
		t.Fatal(err)
	}
	side := `{"title": "Paper A", "abstract": "A calibration model", "keywords": ["traffic", "calibration"], "open_access": true}`
	if err := os.WriteFile(filepath.Join(cfg.MetaDir, "10.1_a.json"), []byte(side), 0644); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestLoad(t *testing.T) {
	cfg := testConfig(t)

	ds, err := Load(cfg, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if ds.Rows != 3 {
		t.Errorf("Rows = %d, want 3", ds.Rows)
	}
	if len(ds.Records) != 2 {
		t.Fatalf("Records = %d, want 2", len(ds.Records))
	}
	if len(ds.Skipped) != 1 || ds.Skipped[0].DOI != "10.1/c" {
		t.Errorf("Skipped = %+v, want 10.1/c", ds.Skipped)
	}

	a := ds.Records[0]
	if a.Title != "Paper A" || a.Keywords != "traffic, calibration" || a.OpenAccess != "True" {
		t.Errorf("record A metadata = %+v", a)
	}
	if ds.Records[1].OpenAccess != "False" {
		t.Errorf("record B OpenAccess = %q, want False", ds.Records[1].OpenAccess)
	}

	if diff := cmp.Diff([]string{"10.1/b"}, ds.MissingMetadata()); diff != "" {
		t.Errorf("MissingMetadata() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"10.1/a", "10.1/b"}, ds.DOIs()); diff != "" {
		t.Errorf("DOIs() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingColumn(t *testing.T) {
	cfg := testConfig(t)
	cfg.Columns.X = "umap_x"

	_, err := Load(cfg, nil)
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("Load() error = %v, want ErrMissingColumn", err)
	}
}

func TestLoad_MissingTable(t *testing.T) {
	cfg := testConfig(t)
	cfg.TablePath = filepath.Join(t.TempDir(), "none.csv")

	if _, err := Load(cfg, nil); err == nil {
		t.Error("Load() expected error for missing table")
	}
}

func TestBuild(t *testing.T) {
	cfg := testConfig(t)

	summary, err := Build(cfg, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := Summary{
		Output:      cfg.OutputPath,
		Rows:        3,
		Records:     2,
		Skipped:     1,
		Topics:      2,
		Traces:      4, // Traffic code-yes, Safety code-no, Traffic data-no, Safety data-yes
		MissingMeta: 1,
		Bytes:       summary.Bytes,
	}
	if diff := cmp.Diff(want, *summary); diff != "" {
		t.Errorf("Build() summary mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(data) != summary.Bytes {
		t.Errorf("output size = %d, summary says %d", len(data), summary.Bytes)
	}
	page := string(data)
	for _, want := range []string{
		"Open Science Explorer for Transportation Research",
		`<option value="Safety">Safety</option>`,
		"Paper A",
		"RERITE2026OTSM",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}

	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(cfg.OutputPath), ".explorer-*"))
	if len(leftovers) != 0 {
		t.Errorf("temporary files left behind: %v", leftovers)
	}
}
