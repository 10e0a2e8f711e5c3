package journal

import (
	"context"
	"encoding/json"
	"fmt"
)

// readDocument fetches a JSON document at a reserved path and unmarshals it
// into v. Returns the document's version id for the follow-up write.
// An absent document (or absent reserved folder) is KindConfigNotFound.
func readDocument(ctx context.Context, backend Backend, path string, v any) (string, error) {
	info, err := backend.Get(ctx, path)
	if err != nil {
		// Optional documents are read silently: any retrieval failure means
		// the feature is unavailable, not that the user must act.
		return "", newError(KindConfigNotFound, "", err)
	}

	text, err := decodeBase64Text(info.Body)
	if err != nil {
		return "", fmt.Errorf("decoding document %s: %w", path, err)
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return "", fmt.Errorf("parsing document %s: %w", path, err)
	}
	return info.SHA, nil
}

// writeDocument marshals v and writes it to a reserved path with the same
// get-with-sha / put-with-sha pattern as regular files. sha is empty on
// first creation.
func writeDocument(ctx context.Context, backend Backend, path, message string, v any, sha string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document %s: %w", path, err)
	}
	if _, err := backend.Put(ctx, path, message, encodeBase64Text(string(data)), sha); err != nil {
		return fmt.Errorf("writing document %s: %w", path, err)
	}
	return nil
}
