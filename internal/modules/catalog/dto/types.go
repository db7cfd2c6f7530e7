package dto

type BookResult struct {
	ISBN      string
	Title     string
	Authors   []string
	Publisher string
	Thumbnail string
	Contents  string
	Provider  string
}

type SearchInput struct {
	Query string
	Limit int
}

type LookupInput struct {
	ISBNs []string
}

type PluginInfo struct {
	Name         string
	Version      string
	Enabled      bool
	Binary       string
	Capabilities []string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}
