package fetch

//Provenance keeps lightweight source metadata of acquired media
type Provenance struct {
	// Label is the original file name or a title derived from the URL
	Label string
	// Size in bytes, zero when unknown
	Size int64
}

//Source kinds accepted by the service
const (
	//SourceUpload - direct file upload
	SourceUpload = "upload"
	//SourceYoutube - remote youtube URL, re-encoded to mp4 on download
	SourceYoutube = "youtube"
	//SourceVimeo - remote vimeo URL, downloaded as is
	SourceVimeo = "vimeo"
)
