package models

/**
 * Download progress sample
 * @property {int64} BytesRead - Bytes received so far
 * @property {int64} TotalBytes - Content length, -1 when the server did not send one
 */
type DownloadProgress struct {
	BytesRead  int64 `json:"bytesRead"`
	TotalBytes int64 `json:"totalBytes"`
}

// Percent 返回下载百分比，总长度未知时返回-1
func (p DownloadProgress) Percent() float64 {
	if p.TotalBytes <= 0 {
		return -1
	}
	return float64(p.BytesRead) * 100 / float64(p.TotalBytes)
}

/**
 * Progress event of a top level install.
 * The first event of an install carries neither Download nor Completed.
 */
type ModProgress struct {
	Download  *DownloadProgress `json:"download,omitempty"`
	Completed bool              `json:"completed"`
}

type ProgressFunc func(ModProgress)
