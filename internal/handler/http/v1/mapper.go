package v1

import "github.com/shenikar/trashunter/internal/models"

// ModelToMarkerResponse преобразует запись маркера в DTO для ответа
func ModelToMarkerResponse(model *models.MarkerRecord) *MarkerResponse {
	return &MarkerResponse{
		ID:            model.ID,
		Latitude:      model.Latitude,
		Longitude:     model.Longitude,
		Status:        string(model.Status),
		ImageURL:      model.ImageURL,
		CleanImageURL: model.CleanImageURL,
		Note:          model.Note,
		CreatedAt:     model.CreatedAt,
		CleanedAt:     model.CleanedAt,
	}
}

// ModelsToMarkerResponses преобразует слайс моделей в слайс DTO
func ModelsToMarkerResponses(models []*models.MarkerRecord) []*MarkerResponse {
	responses := make([]*MarkerResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToMarkerResponse(model)
	}
	return responses
}
