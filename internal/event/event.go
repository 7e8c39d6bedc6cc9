package event

type Type string

const (
	TypePhotoUploaded Type = "photo.uploaded"
	TypePhotoDeleted  Type = "photo.deleted"
)

type Event struct {
	ID        string      `json:"id"`
	Type      Type        `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp string      `json:"timestamp"`
}

// PhotoUploaded is the payload dispatched after a successful upload so the
// imaging worker can generate variants off the request path.
type PhotoUploaded struct {
	PhotoID  int64  `json:"photo_id"`
	FullPath string `json:"full_path"`
	Uploader string `json:"uploader"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
