package handlers

import (
	"github.com/zerogal/zerogalbackend/models"
)

// AlbumInfo is the public album representation; the token itself is never
// exposed, only whether one is set.
type AlbumInfo struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	ImagePreviewID  int64  `json:"imagePreviewId"`
	AllowRemoveData bool   `json:"allowRemoveData"`
	IsProtected     bool   `json:"isProtected"`
}

// DataInfo is the public record representation.
type DataInfo struct {
	ID               int64  `json:"id"`
	AlbumID          int64  `json:"albumId"`
	Name             string `json:"name"`
	Extension        string `json:"extension"`
	MimeType         string `json:"mimeType"`
	Description      string `json:"description"`
	Tags             string `json:"tags"`
	Size             int64  `json:"size"`
	CreatedTimestamp int64  `json:"createdTimestamp"`
	TakenAt          *int64 `json:"takenAt,omitempty"`
	PreviewStatus    int    `json:"previewStatus"`
	ConvertStatus    int    `json:"convertStatus"`
}

func toAlbumInfo(album models.Album) AlbumInfo {
	return AlbumInfo{
		ID:              album.ID,
		Name:            album.Name,
		Description:     album.Description,
		ImagePreviewID:  album.ImagePreviewID,
		AllowRemoveData: album.AllowRemoveData,
		IsProtected:     album.IsProtected(),
	}
}

func toAlbumInfos(albums []models.Album) []AlbumInfo {
	infos := make([]AlbumInfo, 0, len(albums))
	for _, album := range albums {
		infos = append(infos, toAlbumInfo(album))
	}
	return infos
}

func toDataInfo(record models.DataRecord) DataInfo {
	return DataInfo{
		ID:               record.ID,
		AlbumID:          record.AlbumID,
		Name:             record.Name,
		Extension:        record.Extension,
		MimeType:         record.MimeType,
		Description:      record.Description,
		Tags:             record.Tags,
		Size:             record.Size,
		CreatedTimestamp: record.CreatedTimestamp,
		TakenAt:          record.TakenAt,
		PreviewStatus:    record.PreviewStatus,
		ConvertStatus:    record.ConvertStatus,
	}
}

func toDataInfos(records []models.DataRecord) []DataInfo {
	infos := make([]DataInfo, 0, len(records))
	for _, record := range records {
		infos = append(infos, toDataInfo(record))
	}
	return infos
}
