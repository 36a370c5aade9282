package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a local status server address in format [host]:[port]
//	-key-file path to the sealed master-key file
//	-index path to the encrypted metadata index database
//	-endpoint object store API endpoint
//	-region object store region
//	-bucket object store bucket name
//	-access-key-id object store static access key id
//	-secret-access-key object store static secret access key
//	-trash-retention trash retention period (e.g., "720h")
//	-sync-interval background reconcile interval (e.g., "5m")
//	-request-timeout local status server request timeout (e.g., "30s")
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var keyFilePath string
	var indexPath string
	var argon2TimeCost uint
	var argon2MemoryKiB uint
	var argon2Threads uint
	var endpoint string
	var region string
	var bucketName string
	var accessKeyID string
	var secretAccessKey string
	var trashRetention time.Duration
	var syncInterval time.Duration
	var requestTimeout time.Duration
	var jsonConfigPath string

	flag.Var(&serverAddress, "a", "Local status server address host:port")
	flag.StringVar(&keyFilePath, "key-file", "", "Sealed master-key file path")
	flag.StringVar(&indexPath, "index", "", "Encrypted metadata index path")
	flag.UintVar(&argon2TimeCost, "argon2-time-cost", 0, "Argon2id time cost override")
	flag.UintVar(&argon2MemoryKiB, "argon2-memory-kib", 0, "Argon2id memory cost override (KiB)")
	flag.UintVar(&argon2Threads, "argon2-threads", 0, "Argon2id parallelism override")
	flag.StringVar(&endpoint, "endpoint", "", "Object store API endpoint")
	flag.StringVar(&region, "region", "", "Object store region")
	flag.StringVar(&bucketName, "bucket", "", "Object store bucket name")
	flag.StringVar(&accessKeyID, "access-key-id", "", "Object store access key id")
	flag.StringVar(&secretAccessKey, "secret-access-key", "", "Object store secret access key")
	flag.DurationVar(&trashRetention, "trash-retention", 0, "Trash retention period (e.g., 720h)")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Reconcile pass interval (e.g., 5m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		Vault: Vault{
			KeyFilePath:     keyFilePath,
			IndexPath:       indexPath,
			Argon2TimeCost:  uint32(argon2TimeCost),
			Argon2MemoryKiB: uint32(argon2MemoryKiB),
			Argon2Threads:   uint8(argon2Threads),
		},
		ObjectStore: ObjectStore{
			Endpoint:        endpoint,
			Region:          region,
			BucketName:      bucketName,
			AccessKeyID:     accessKeyID,
			SecretAccessKey: secretAccessKey,
		},
		Trash: Trash{
			RetentionPeriod: trashRetention,
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Workers:      Workers{SyncInterval: syncInterval},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns the empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
