package avatar

type uploadInput struct {
	Key         string `query:"key" required:"true" doc:"Object key inside the avatars bucket, <uid>/<file>"`
	ContentType string `header:"Content-Type"`
	RawBody     []byte `contentType:"application/octet-stream"`
}

type uploadOutput struct {
	Body UploadResponse
}

type UploadResponse struct {
	Key  string `json:"key"`
	Size int    `json:"size"`
}

type signInput struct {
	Body SignRequest
}

type SignRequest struct {
	Key       string `json:"key" minLength:"1"`
	ExpiresIn int    `json:"expires_in,omitempty" minimum:"0" doc:"Lifetime in seconds, defaults to 1800"`
}

type signOutput struct {
	Body SignResponse
}

type SignResponse struct {
	SignedURL string `json:"signed_url" doc:"Path relative to the API host"`
}

type objectInput struct {
	Token string `query:"token" required:"true"`
}

type objectOutput struct {
	ContentType  string `header:"Content-Type"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}
