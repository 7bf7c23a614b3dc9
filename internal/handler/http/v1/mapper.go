package v1

import "github.com/shenikar/sisocc/internal/models"

// DTOToDraft преобразует DTO создания в черновик доменной модели
func DTOToDraft(dto CreateOccurrenceRequest) models.Draft {
	return models.Draft{
		Tipo:        dto.Tipo,
		Local:       dto.Local,
		Endereco:    dto.Endereco,
		Descricao:   dto.Descricao,
		Prioridade:  dto.Prioridade,
		Responsavel: dto.Responsavel,
		Latitude:    dto.Latitude,
		Longitude:   dto.Longitude,
		CoordSource: dto.CoordSource,
	}
}

// DTOToPatch преобразует DTO обновления в патч
func DTOToPatch(dto UpdateOccurrenceRequest) models.Patch {
	return models.Patch{
		Tipo:        dto.Tipo,
		Local:       dto.Local,
		Endereco:    dto.Endereco,
		Descricao:   dto.Descricao,
		Responsavel: dto.Responsavel,
		Status:      dto.Status,
		Prioridade:  dto.Prioridade,
		Latitude:    dto.Latitude,
		Longitude:   dto.Longitude,
	}
}

// ModelToOccurrenceResponse преобразует доменную модель в DTO для ответа.
// Координаты без источника отдаются как null, а не как точка (0, 0).
func ModelToOccurrenceResponse(model *models.Occurrence) *OccurrenceResponse {
	resp := &OccurrenceResponse{
		ID:          model.ID,
		Tipo:        model.Tipo,
		Local:       model.Local,
		Endereco:    model.Endereco,
		CoordSource: model.CoordSource,
		Status:      model.Status,
		StatusLabel: model.Status.Label(),
		Prioridade:  model.Prioridade,
		Descricao:   model.Descricao,
		Responsavel: model.Responsavel,
		UserID:      model.UserID,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
	if p, ok := model.Point(); ok {
		resp.Latitude, resp.Longitude = &p.Lat, &p.Lng
	}
	return resp
}

// ModelsToOccurrenceResponses преобразует слайс моделей в слайс DTO
func ModelsToOccurrenceResponses(list []*models.Occurrence) []*OccurrenceResponse {
	responses := make([]*OccurrenceResponse, len(list))
	for i, model := range list {
		responses[i] = ModelToOccurrenceResponse(model)
	}
	return responses
}
