package catalog

// File is the per-model scene catalog as published for the Govee app.
type File struct {
	Data struct {
		Categories []*Category `json:"categories"`
	} `json:"data"`
}

type Category struct {
	Name   string   `json:"categoryName"`
	Scenes []*Scene `json:"scenes"`
}

type Scene struct {
	Name    string         `json:"sceneName"`
	Effects []*LightEffect `json:"lightEffects"`
}

// LightEffect keys keep the catalog's own spelling.
type LightEffect struct {
	Name     string           `json:"scenceName"`
	Code     int              `json:"sceneCode"`
	Param    string           `json:"scenceParam"`
	Specials []*SpecialEffect `json:"specialEffect"`
}

type SpecialEffect struct {
	Param      string   `json:"scenceParam"`
	SupportSku []string `json:"supportSku"`
}

func (s *SpecialEffect) supports(model string) bool {
	if len(s.SupportSku) == 0 {
		return true
	}
	for _, sku := range s.SupportSku {
		if sku == model {
			return true
		}
	}
	return false
}
