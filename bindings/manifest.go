package bindings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
)

// Object store backends accepted in a manifest.
const (
	BackendFS    = "fs"
	BackendRedis = "redis"
)

// Manifest declares the resources an environment exposes. It says where
// each handle points, never what credential unlocks it; credentials come
// from Secrets.
type Manifest struct {
	Database DatabaseSpec `toml:"database" json:"database"`
	Objects  ObjectsSpec  `toml:"objects" json:"objects"`
	Services ServicesSpec `toml:"services" json:"services"`
}

// DatabaseSpec declares the relational store.
type DatabaseSpec struct {
	// Binding is the handle name request code refers to.
	Binding string `toml:"binding" json:"binding"`

	// Driver is the database/sql driver name. Only "sqlite" is wired.
	Driver string `toml:"driver" json:"driver"`

	// DSN is the driver-specific data source name.
	DSN string `toml:"dsn" json:"dsn"`
}

// ObjectsSpec declares the object store.
type ObjectsSpec struct {
	Binding string `toml:"binding" json:"binding"`

	// Backend selects the implementation: "fs" or "redis".
	Backend string `toml:"backend" json:"backend"`

	// Root is the filesystem root for the fs backend.
	Root string `toml:"root" json:"root"`

	// Addr is the server address for the redis backend.
	Addr string `toml:"addr" json:"addr"`

	// Prefix is the key prefix for the redis backend.
	Prefix string `toml:"prefix" json:"prefix"`
}

// ServicesSpec declares the external HTTP services.
type ServicesSpec struct {
	// AccountsURL is the base URL of the user-account service.
	AccountsURL string `toml:"accounts_url" json:"accounts_url"`

	// AIProvider selects the default generative-AI provider
	// ("anthropic" or "openai").
	AIProvider string `toml:"ai_provider" json:"ai_provider"`
}

// LoadManifest reads and parses a manifest file. The format follows the
// file extension: .toml or .json.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("bindings: read manifest: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ParseTOML(data)
	case ".json":
		return ParseJSON(data)
	default:
		return Manifest{}, fmt.Errorf("bindings: unsupported manifest format %q", filepath.Ext(path))
	}
}

// ParseTOML parses a TOML manifest.
func ParseTOML(data []byte) (Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("bindings: parse toml manifest: %w", err)
	}
	applyDefaults(&m)
	return m, m.validate()
}

// ParseJSON parses a JSON manifest.
func ParseJSON(data []byte) (Manifest, error) {
	if !gjson.ValidBytes(data) {
		return Manifest{}, fmt.Errorf("bindings: manifest is not valid JSON")
	}

	doc := gjson.ParseBytes(data)
	m := Manifest{
		Database: DatabaseSpec{
			Binding: doc.Get("database.binding").String(),
			Driver:  doc.Get("database.driver").String(),
			DSN:     doc.Get("database.dsn").String(),
		},
		Objects: ObjectsSpec{
			Binding: doc.Get("objects.binding").String(),
			Backend: doc.Get("objects.backend").String(),
			Root:    doc.Get("objects.root").String(),
			Addr:    doc.Get("objects.addr").String(),
			Prefix:  doc.Get("objects.prefix").String(),
		},
		Services: ServicesSpec{
			AccountsURL: doc.Get("services.accounts_url").String(),
			AIProvider:  doc.Get("services.ai_provider").String(),
		},
	}
	applyDefaults(&m)
	return m, m.validate()
}

func applyDefaults(m *Manifest) {
	if m.Database.Binding == "" {
		m.Database.Binding = "DB"
	}
	if m.Database.Driver == "" {
		m.Database.Driver = "sqlite"
	}
	if m.Database.DSN == "" {
		m.Database.DSN = filepath.Join(".rewind", "rewind.db")
	}
	if m.Objects.Binding == "" {
		m.Objects.Binding = "STORAGE"
	}
	if m.Objects.Backend == "" {
		m.Objects.Backend = BackendFS
	}
	if m.Objects.Prefix == "" {
		m.Objects.Prefix = "rewind:objects:"
	}
	if m.Services.AIProvider == "" {
		m.Services.AIProvider = ProviderAnthropic
	}
}

func (m Manifest) validate() error {
	switch m.Objects.Backend {
	case BackendFS, BackendRedis:
	default:
		return fmt.Errorf("bindings: unknown object store backend %q", m.Objects.Backend)
	}
	if m.Objects.Backend == BackendRedis && m.Objects.Addr == "" {
		return fmt.Errorf("bindings: redis object store requires an addr")
	}

	switch m.Services.AIProvider {
	case ProviderAnthropic, ProviderOpenAI:
	default:
		return fmt.Errorf("bindings: unknown AI provider %q", m.Services.AIProvider)
	}
	return nil
}
