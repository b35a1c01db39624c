package analysis

import "regexp"

var videoIDPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([\w-]+)`)

// ExtractVideoID pulls the video ID out of a YouTube watch or short URL.
// Returns an empty string when the URL does not look like YouTube.
func ExtractVideoID(url string) string {
	m := videoIDPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// ThumbnailURL returns the static thumbnail URL for a video ID.
// quality is one of maxres, high, medium, default.
func ThumbnailURL(videoID, quality string) string {
	switch quality {
	case "maxres", "high", "medium", "default":
	default:
		quality = "high"
	}
	return "https://img.youtube.com/vi/" + videoID + "/" + quality + ".jpg"
}
