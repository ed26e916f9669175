package domain

// Avatar and Voice are side-channel options for the video bot, fetched
// from the media vendor API and passed through to the chat webhook.

type Avatar struct {
	AvatarID    string `json:"avatar_id"`
	AvatarName  string `json:"avatar_name"`
	PreviewURL  string `json:"preview_image_url"`
	Gender      string `json:"gender"`
	Interactive bool   `json:"support_interactive_avatar"`
}

type Voice struct {
	VoiceID      string `json:"voice_id"`
	Name         string `json:"name"`
	Language     string `json:"language"`
	Gender       string `json:"gender"`
	PreviewAudio string `json:"preview_audio"`
}

// Dimension is an output size option for the image-post bot.
type Dimension struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Label  string `json:"label"`
}
