package types

// Manga describes a single title as stored in the library's metadata
// file. The Cover field is empty on disk and attached from its own file
// when the metadata is served; json encodes it as base64 on the wire.
type Manga struct {
	ID           uint32   `json:"id"`
	EnglishName  string   `json:"english_name"`
	JapaneseName string   `json:"japanese_name"`
	Cover        []byte   `json:"cover,omitempty"`
	Tags         []string `json:"tags"`
	Artists      []string `json:"artists"`
	Pages        int      `json:"pages"`
	Uploaded     string   `json:"uploaded"`
}
