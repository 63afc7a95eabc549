package utils

import "strings"

// OptimizeImageURL rewrites a Cloudinary-hosted image URL to request a
// fixed-width, auto-quality, auto-format rendition. Non-Cloudinary URLs and
// URLs that already carry a transformation are returned unchanged. This is
// presentation only; stored URLs are never modified.
func OptimizeImageURL(url string) string {
	if !strings.Contains(url, "res.cloudinary.com") {
		return url
	}
	if strings.Contains(url, "/w_") || strings.Contains(url, "/c_") || strings.Contains(url, "/h_") {
		return url
	}
	if strings.Contains(url, "/upload/v") {
		return strings.Replace(url, "/upload/v", "/upload/w_600,q_auto,f_auto/v", 1)
	}
	return strings.Replace(url, "/upload/", "/upload/w_600,q_auto,f_auto/", 1)
}

// OptimizeImageURLs maps OptimizeImageURL over a slice of URLs.
func OptimizeImageURLs(urls []string) []string {
	if len(urls) == 0 {
		return urls
	}
	out := make([]string, len(urls))
	for i, u := range urls {
		out[i] = OptimizeImageURL(u)
	}
	return out
}
