package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/hallucination/internal/config"
	"github.com/Faultbox/hallucination/internal/engine/model"
	"github.com/Faultbox/hallucination/internal/logger"
	"github.com/Faultbox/hallucination/pkg/obj"
)

// Scene is the loaded figure: one mesh per clothing part plus the model
// the fur grows on.
type Scene struct {
	Meshes []*model.Mesh
	Host   *obj.Model
}

type part struct {
	key   string
	file  string
	color [3]float32
}

// LoadScene reads every model named in cfg and builds its mesh.
func LoadScene(cfg config.ModelsConfig) (*Scene, error) {
	parts := []part{
		{"body", cfg.Body, model.SkinColor},
		{"jeans", cfg.Jeans, model.JeansColor},
		{"jacket", cfg.Jacket, model.JacketColor},
		{"shoes", cfg.Shoes, model.ShoesColor},
	}

	s := &Scene{}
	for _, p := range parts {
		path := cfg.Path(p.file)
		m, err := obj.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", p.key, err)
		}
		mesh := model.BuildMesh(m, p.color, model.BuildOptions{})
		s.Meshes = append(s.Meshes, mesh)
		if p.key == cfg.HairHost {
			s.Host = m
		}
		logger.Debug("model loaded",
			zap.String("part", p.key),
			zap.String("path", path),
			zap.Int("triangles", m.TriangleCount()),
		)
	}
	if s.Host == nil {
		return nil, fmt.Errorf("%w: unknown hair host %q", config.ErrInvalid, cfg.HairHost)
	}
	return s, nil
}
