package model

// DepotRecord pairs a depot id with the key needed to decrypt its content.
type DepotRecord struct {
	DepotID       string `json:"depot_id"`
	DecryptionKey string `json:"decryption_key"`
}

// BundleReport is the machine-readable summary of one retrieval run.
type BundleReport struct {
	AppID               string        `json:"app_id"`
	GameName            string        `json:"game_name,omitempty"`
	Repository          string        `json:"repository,omitempty"`
	CommitDate          string        `json:"commit_date,omitempty"`
	OutputDir           string        `json:"output_dir"`
	Depots              []DepotRecord `json:"depots"`
	ManifestsDownloaded int           `json:"manifests_downloaded"`
	ManifestsSkipped    int           `json:"manifests_skipped"`
	ManifestsFailed     int           `json:"manifests_failed"`
	ScriptPath          string        `json:"script_path,omitempty"`
}

// ManifestSuffix is the filename suffix shared by all depot manifest files.
const ManifestSuffix = ".manifest"
