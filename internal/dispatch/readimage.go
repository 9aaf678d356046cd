package dispatch

import "agentshell/internal/fileio"

// ReadImage loads an image file and returns it base64-encoded with a mime
// hint. It shares no mode or whitelist bookkeeping with the text file path,
// since images are never edited through this module.
func (d *Dispatcher) ReadImage(req ReadImageRequest) (ReadImageResponse, error) {
	logOp("ReadImage", "")
	result, err := fileio.ReadImage(req.FilePath)
	if err != nil {
		return ReadImageResponse{}, err
	}
	return ReadImageResponse{Mime: result.MimeType, Base64: result.Base64}, nil
}
