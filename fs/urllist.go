package fs

import (
	"encoding/json"
	"os"

	"github.com/fwojciec/siteport"
)

// WriteURLs stores a discovered URL list as a JSON array.
func WriteURLs(path string, urls []string) error {
	if urls == nil {
		urls = []string{}
	}
	data, err := json.MarshalIndent(urls, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// ReadURLs loads a URL list written by WriteURLs.
// Returns ENOTFOUND if the file does not exist.
func ReadURLs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, siteport.Errorf(siteport.ENOTFOUND, "URL list %s not found, run discover first", path)
	}
	if err != nil {
		return nil, err
	}

	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		return nil, siteport.Errorf(siteport.EINVALID, "URL list %s: %v", path, err)
	}
	return urls, nil
}
