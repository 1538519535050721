package service

import "github.com/gobuild-crm/vishnu/internal/domain"

// ChunkConfig controls how document text is windowed before embedding.
type ChunkConfig struct {
	// Size is the window length in characters.
	Size int
	// Overlap is how many characters consecutive windows share.
	Overlap int
}

// DefaultChunkConfig provides the standard window parameters.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		Size:    1000,
		Overlap: 200,
	}
}

// Validate rejects configurations under which the window offset would not
// advance. An overlap at or above the window size loops forever.
func (c ChunkConfig) Validate() error {
	if c.Size <= 0 {
		return domain.ErrInvalidChunkSize
	}
	if c.Overlap < 0 || c.Overlap >= c.Size {
		return domain.ErrOverlapTooLarge
	}
	return nil
}

// ChunkText splits text into overlapping fixed-size windows. Windows span
// [offset, offset+size) clamped to the text length, with the offset
// advancing by size-overlap. TotalChunks is stamped in a second pass once
// the count is known; it cannot be known mid-stream.
//
// Empty text yields zero chunks. Text shorter than the window size yields
// exactly one chunk spanning the whole text. Pure and deterministic.
func ChunkText(text, documentID string, cfg ChunkConfig) ([]domain.Chunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	step := cfg.Size - cfg.Overlap
	chunks := make([]domain.Chunk, 0, (len(runes)+step-1)/step)

	for offset := 0; offset < len(runes); offset += step {
		end := offset + cfg.Size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, domain.Chunk{
			Text:       string(runes[offset:end]),
			DocumentID: documentID,
			Index:      len(chunks),
		})
	}

	for i := range chunks {
		chunks[i].TotalChunks = len(chunks)
	}

	return chunks, nil
}
