package models

import "encoding/json"

// Entry is one dictionary entry: an assigned ID, the absolute video URL and
// the label text. Immutable once created.
type Entry struct {
	ID       string `json:"id"`
	VideoURL string `json:"video_url"`
	Label    string `json:"label"`
}

// Card holds the raw fields read from one listing-page card before an ID is
// assigned. OnClick carries the modalData(...) handler when the site renders
// one; ThumbSrc and Caption are the fallback source for code and label.
type Card struct {
	OnClick  string `json:"onclick"`
	ThumbSrc string `json:"thumb_src"`
	Caption  string `json:"caption"`
}

// ModalContent is the video source and title read out of an opened card modal
type ModalContent struct {
	Src   string `json:"src"`
	Label string `json:"label"`
}

// ParseCards decodes the JSON card array produced by the in-page reader script
func ParseCards(data []byte) ([]Card, error) {
	var cards []Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// ParseModalContent decodes the JSON object produced by the modal reader script
func ParseModalContent(data []byte) (*ModalContent, error) {
	var modal ModalContent
	if err := json.Unmarshal(data, &modal); err != nil {
		return nil, err
	}
	return &modal, nil
}
