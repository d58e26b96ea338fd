package util

import "fmt"

// AddUniquePrefixToFileName builds the stored object name for a staged file.
// Example output for "transcript.pdf": "Vq2ZkT9fWx_transcript.pdf"
func AddUniquePrefixToFileName(fileName string) (string, error) {
	prefix, err := GenerateNChar(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", prefix, fileName), nil
}
