package domain

// TryOnRequest is the decoded body of one try-on call.
type TryOnRequest struct {
	UserImage         string
	StyleID           string
	StyleReferenceURL string
	RequestID         string
}

// TryOnResult is returned to the caller after a successful run. Only
// ResultImage and Message are part of the HTTP response.
type TryOnResult struct {
	ResultImage  string `json:"resultImage"`
	Message      string `json:"message"`
	UserImageURL string `json:"-"`
	ReferenceURL string `json:"-"`
	Provider     string `json:"-"`
	StyleID      string `json:"-"`
}

// MannequinResult is returned by a mannequin conversion.
type MannequinResult struct {
	MannequinImage string `json:"mannequinImage"`
	Message        string `json:"message"`
	SourceURL      string `json:"-"`
}
