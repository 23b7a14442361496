package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8001
	}
	if cfg.Import.PendingDir == "" {
		cfg.Import.PendingDir = "data/import/pending"
	}
	if cfg.Import.ProcessedDir == "" {
		cfg.Import.ProcessedDir = "data/import/processed"
	}
	if cfg.Import.FailedDir == "" {
		cfg.Import.FailedDir = "data/import/failed"
	}
	if cfg.Import.LogFile == "" {
		cfg.Import.LogFile = "data/import/logs/import.log"
	}
	if cfg.Import.ChunkSize == 0 {
		cfg.Import.ChunkSize = 200
	}
	if cfg.Qdrant.URL == "" {
		cfg.Qdrant.URL = "http://localhost:6333"
	}
	if cfg.Qdrant.Collection == "" {
		cfg.Qdrant.Collection = "documents"
	}
	if cfg.Ollama.URL == "" {
		cfg.Ollama.URL = "http://ollama:11434"
	}
	if cfg.Ollama.Model == "" {
		cfg.Ollama.Model = "deepseek-r1"
	}
	if cfg.Ollama.EmbedModel == "" {
		cfg.Ollama.EmbedModel = "nomic-embed-text"
	}
	if cfg.Ollama.TimeoutSecs == 0 {
		cfg.Ollama.TimeoutSecs = 60
	}
	if cfg.Chat.RelevanceThreshold == 0 {
		cfg.Chat.RelevanceThreshold = 0.7
	}
	if cfg.Chat.SearchLimit == 0 {
		cfg.Chat.SearchLimit = 5
	}
}
