package help

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/wp-stylometry/models"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestColdstartYAML_IsValid(t *testing.T) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal([]byte(ColdstartYAML), &doc); err != nil {
		t.Fatalf("ColdstartYAML is not valid YAML: %v", err)
	}
	if _, ok := doc["commands"]; !ok {
		t.Error("ColdstartYAML has no commands section")
	}
}

func TestConfigTemplate_LoadsAsDefaults(t *testing.T) {
	tmpl, err := ConfigTemplate()
	if err != nil {
		t.Fatalf("ConfigTemplate() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(tmpl), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := models.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig(template) error = %v", err)
	}
	if diff := cmp.Diff(models.DefaultConfig(), cfg); diff != "" {
		t.Errorf("template does not round-trip (-want +got):\n%s", diff)
	}
}
