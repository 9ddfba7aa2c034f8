package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	// Supported publisher types.
	TypeQueue = "queue"
	TypeHTTP  = "http"

	// Supported queue providers.
	QueueProviderAWSSQS = "aws-sqs"
	QueueProviderAWSSNS = "aws-sns"
	QueueProviderGCP    = "gcp"

	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
)

// configFile is the on-disk shape of the publishers declaration.
type configFile struct {
	Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
}

// PublisherConfig declares one update-event sink.
type PublisherConfig struct {
	ID      string                `json:"id" yaml:"id"`
	Type    string                `json:"type" yaml:"type"`
	Enabled *bool                 `json:"enabled" yaml:"enabled"`
	Queue   *QueuePublisherConfig `json:"queue" yaml:"queue"`
	HTTP    *HTTPPublisherConfig  `json:"http" yaml:"http"`
}

// QueuePublisherConfig selects a cloud queue provider.
type QueuePublisherConfig struct {
	Provider string                 `json:"provider" yaml:"provider"`
	SQS      *AWSSQSPublisherConfig `json:"sqs" yaml:"sqs"`
	SNS      *AWSSNSPublisherConfig `json:"sns" yaml:"sns"`
	GCP      *GCPQueueConfig        `json:"gcp" yaml:"gcp"`
}

// AWSSQSPublisherConfig holds AWS SQS settings.
type AWSSQSPublisherConfig struct {
	QueueURL        string `json:"uri" yaml:"uri"`
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

// AWSSNSPublisherConfig holds AWS SNS settings.
type AWSSNSPublisherConfig struct {
	TopicARN        string `json:"topic_arn" yaml:"topic_arn"`
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

// GCPQueueConfig holds the minimal Pub/Sub topic settings.
type GCPQueueConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// HTTPPublisherConfig holds generic webhook sink settings.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// ConfigRegistry materializes publisher declarations loaded from a file.
type ConfigRegistry struct {
	mu         sync.RWMutex
	publishers []PublisherConfig
	idx        map[string]PublisherConfig
}

// LoadRegistry loads publisher declarations from a YAML or JSON file,
// expanding environment references so credentials stay out of the file.
func LoadRegistry(path string) (*ConfigRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	decoded, err := decodeConfigFile([]byte(os.ExpandEnv(string(raw))), filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(decoded.Publishers) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}

	reg := &ConfigRegistry{
		publishers: make([]PublisherConfig, len(decoded.Publishers)),
		idx:        make(map[string]PublisherConfig, len(decoded.Publishers)),
	}

	for i := range decoded.Publishers {
		cfg := sanitizePublisherConfig(decoded.Publishers[i])
		if err := validatePublisherConfig(cfg); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, exists := reg.idx[cfg.ID]; exists {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		reg.publishers[i] = cfg
		reg.idx[cfg.ID] = cfg
	}

	return reg, nil
}

// decodeConfigFile picks the decoder by file extension, trying both formats
// when the extension is unknown.
func decodeConfigFile(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	var lastErr error
	try := func(name string, fn func([]byte, any) error) (configFile, bool) {
		var out configFile
		if err := fn(data, &out); err != nil {
			lastErr = fmt.Errorf("decode %s publishers: %w", name, err)
			return configFile{}, false
		}
		return out, true
	}

	switch ext {
	case ".yaml", ".yml":
		if out, ok := try("yaml", yaml.Unmarshal); ok {
			return out, nil
		}
	case ".json":
		if out, ok := try("json", json.Unmarshal); ok {
			return out, nil
		}
	default:
		if out, ok := try("yaml", yaml.Unmarshal); ok {
			return out, nil
		}
		if out, ok := try("json", json.Unmarshal); ok {
			return out, nil
		}
	}

	if lastErr != nil {
		return configFile{}, lastErr
	}
	return configFile{}, errors.New("publishers file format not recognized (expected YAML or JSON)")
}

// sanitizePublisherConfig trims and normalizes a declaration.
func sanitizePublisherConfig(cfg PublisherConfig) PublisherConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))

	if cfg.Enabled == nil {
		def := true
		cfg.Enabled = &def
	}

	if cfg.Queue != nil {
		qc := *cfg.Queue
		qc.Provider = strings.ToLower(strings.TrimSpace(qc.Provider))
		if qc.SQS != nil {
			s := *qc.SQS
			trimAll(&s.QueueURL, &s.Region, &s.AccessKeyID, &s.SecretAccessKey)
			qc.SQS = &s
		}
		if qc.SNS != nil {
			s := *qc.SNS
			trimAll(&s.TopicARN, &s.Region, &s.AccessKeyID, &s.SecretAccessKey)
			qc.SNS = &s
		}
		if qc.GCP != nil {
			g := *qc.GCP
			trimAll(&g.ProjectID, &g.Topic, &g.CredentialsFile)
			qc.GCP = &g
		}
		cfg.Queue = &qc
	}

	if cfg.HTTP != nil {
		h := *cfg.HTTP
		h.URL = strings.TrimSpace(h.URL)
		h.Method = strings.ToUpper(strings.TrimSpace(h.Method))
		if h.Method == "" {
			h.Method = httpDefaultMethod
		}
		h.Headers = sanitizeHeaders(h.Headers)
		if h.TimeoutSeconds <= 0 {
			h.TimeoutSeconds = httpDefaultTimeoutSeconds
		}
		cfg.HTTP = &h
	}

	return cfg
}

func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

// sanitizeHeaders drops headers with an empty key or value.
func sanitizeHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		out[key] = val
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// validatePublisherConfig checks that required fields are present.
func validatePublisherConfig(cfg PublisherConfig) error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	if cfg.Type == "" {
		return fmt.Errorf("type is required for publisher %q", cfg.ID)
	}

	switch cfg.Type {
	case TypeQueue:
		if cfg.Queue == nil {
			return fmt.Errorf("queue config required for publisher %q", cfg.ID)
		}
		return validateQueueConfig(cfg.ID, cfg.Queue)
	case TypeHTTP:
		if cfg.HTTP == nil {
			return fmt.Errorf("http config required for publisher %q", cfg.ID)
		}
		if cfg.HTTP.URL == "" {
			return fmt.Errorf("http.url is required for publisher %q", cfg.ID)
		}
		return nil
	default:
		return fmt.Errorf("type %q not supported for publisher %q", cfg.Type, cfg.ID)
	}
}

func validateQueueConfig(id string, qc *QueuePublisherConfig) error {
	switch qc.Provider {
	case QueueProviderAWSSQS:
		if qc.SQS == nil {
			return fmt.Errorf("sqs config required for publisher %q", id)
		}
		return requireFields(id,
			field{"sqs.uri", qc.SQS.QueueURL},
			field{"sqs.region", qc.SQS.Region},
			field{"sqs.access_key_id", qc.SQS.AccessKeyID},
			field{"sqs.secret_access_key", qc.SQS.SecretAccessKey},
		)
	case QueueProviderAWSSNS:
		if qc.SNS == nil {
			return fmt.Errorf("sns config required for publisher %q", id)
		}
		return requireFields(id,
			field{"sns.topic_arn", qc.SNS.TopicARN},
			field{"sns.region", qc.SNS.Region},
			field{"sns.access_key_id", qc.SNS.AccessKeyID},
			field{"sns.secret_access_key", qc.SNS.SecretAccessKey},
		)
	case QueueProviderGCP:
		if qc.GCP == nil {
			return fmt.Errorf("gcp config required for publisher %q", id)
		}
		return requireFields(id,
			field{"gcp.project_id", qc.GCP.ProjectID},
			field{"gcp.topic", qc.GCP.Topic},
		)
	default:
		return fmt.Errorf("queue provider %q not supported for publisher %q", qc.Provider, id)
	}
}

type field struct {
	name  string
	value string
}

func requireFields(id string, fields ...field) error {
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%s is required for publisher %q", f.name, id)
		}
	}
	return nil
}

// ByID returns the publisher declaration with the given id.
func (r *ConfigRegistry) ByID(id string) (PublisherConfig, bool) {
	if r == nil {
		return PublisherConfig{}, false
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return PublisherConfig{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.idx[id]
	return cfg, ok
}

// All returns every declared publisher.
func (r *ConfigRegistry) All() []PublisherConfig {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]PublisherConfig, len(r.publishers))
	copy(out, r.publishers)
	return out
}

// Enabled returns the declared publishers that are enabled.
func (r *ConfigRegistry) Enabled() []PublisherConfig {
	all := r.All()
	if len(all) == 0 {
		return nil
	}

	out := make([]PublisherConfig, 0, len(all))
	for _, cfg := range all {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}

// EnabledValue returns the enabled flag, defaulting to true.
func (cfg PublisherConfig) EnabledValue() bool {
	if cfg.Enabled == nil {
		return true
	}
	return *cfg.Enabled
}
