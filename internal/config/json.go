package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the JSON-specific representation of the vault
// configuration. It mirrors [StructuredConfig] but uses JSON struct tags and
// the custom [Duration] type so that duration values can be expressed as
// human-readable strings (e.g. "1h", "30s") in the config file.
//
// After decoding, the values are mapped into a [StructuredConfig] by
// [parseJSON].
type StructuredJSONConfig struct {
	// Vault holds cryptographic tuning and on-disk locations loaded from
	// the JSON file.
	Vault struct {
		KeyFilePath     string `json:"key_file_path"`
		IndexPath       string `json:"index_path"`
		Argon2TimeCost  uint32 `json:"argon2_time_cost"`
		Argon2MemoryKiB uint32 `json:"argon2_memory_kib"`
		Argon2Threads   uint8  `json:"argon2_threads"`
	} `json:"vault,omitempty"`

	// ObjectStore holds the remote bucket settings loaded from the JSON
	// file.
	ObjectStore struct {
		Endpoint        string `json:"endpoint"`
		Region          string `json:"region"`
		BucketName      string `json:"bucket_name"`
		AccessKeyID     string `json:"access_key_id"`
		SecretAccessKey string `json:"secret_access_key"`
	} `json:"object_store,omitempty"`

	// Trash holds soft-delete retention settings loaded from the JSON
	// file.
	Trash struct {
		RetentionPeriod Duration `json:"retention_period"`
	} `json:"trash,omitempty"`

	// Server holds the local status server settings loaded from the
	// JSON file.
	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	// Workers holds background reconciliation settings loaded from the
	// JSON file.
	Workers struct {
		SyncInterval Duration `json:"sync_interval"`
	} `json:"workers,omitempty"`
}

// parseJSON opens the JSON file at jsonFilePath, decodes it into a
// [StructuredJSONConfig], and maps the result into a [StructuredConfig].
//
// JSONFilePath is intentionally left empty in the returned config so that
// the path is not re-processed during subsequent merge steps.
//
// Returns a wrapped error if the file cannot be opened or its contents
// cannot be decoded as valid JSON.
func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Vault: Vault{
			KeyFilePath:     jsonCfg.Vault.KeyFilePath,
			IndexPath:       jsonCfg.Vault.IndexPath,
			Argon2TimeCost:  jsonCfg.Vault.Argon2TimeCost,
			Argon2MemoryKiB: jsonCfg.Vault.Argon2MemoryKiB,
			Argon2Threads:   jsonCfg.Vault.Argon2Threads,
		},
		ObjectStore: ObjectStore{
			Endpoint:        jsonCfg.ObjectStore.Endpoint,
			Region:          jsonCfg.ObjectStore.Region,
			BucketName:      jsonCfg.ObjectStore.BucketName,
			AccessKeyID:     jsonCfg.ObjectStore.AccessKeyID,
			SecretAccessKey: jsonCfg.ObjectStore.SecretAccessKey,
		},
		Trash: Trash{
			RetentionPeriod: time.Duration(jsonCfg.Trash.RetentionPeriod),
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Workers:      Workers{SyncInterval: time.Duration(jsonCfg.Workers.SyncInterval)},
		JSONFilePath: "", // intentionally cleared to prevent re-processing
	}

	return cfg, nil
}

// Duration is a thin wrapper around [time.Duration] that adds JSON
// unmarshaling support for human-readable duration strings such as "1h",
// "30m", or "15s", in addition to raw nanosecond integers.
//
// Use Duration in JSON config structs wherever a time.Duration field is
// needed. Convert back to time.Duration with a simple cast:
//
//	d := Duration(5 * time.Minute)
//	std := time.Duration(d) // → 5m0s
type Duration time.Duration

// UnmarshalJSON implements [json.Unmarshaler] for Duration.
//
// Supported JSON value types:
//   - string: parsed with [time.ParseDuration] (e.g. "1h30m", "30s").
//   - number: treated as a raw nanosecond count (same as time.Duration).
//
// Returns an error if the value is a string that cannot be parsed as a
// duration, or if the JSON value is of an unsupported type.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

// MarshalJSON implements [json.Marshaler] for Duration.
// The value is serialized as a human-readable string using
// [time.Duration.String] (e.g. "1h0m0s", "30m0s").
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
