package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/yyyoichi/lens_rectify/lens"
)

/* Example config file ...

camera:
  cropfactor: 1.5

lens:
  maker: Pentax
  model: smc Pentax-DA 18-55mm
  type: rectilinear
  cropfactor: 1.5
  aspect: 1.5
  distortion:
    - {model: ptlens, focal: 18, a: 0.011, b: -0.03, c: 0.003}
    - {model: ptlens, focal: 35, a: 0.004, b: -0.009, c: 0.001}
  tca:
    - {model: linear, focal: 18, kr: 1.0006, kb: 0.9994}
  vignetting:
    - {model: pa, focal: 18, aperture: 4, distance: 10, k1: -0.4, k2: 0.1, k3: -0.02}

shooting:
  focal: 18     # omit to read from EXIF
  aperture: 4
  distance: 10
*/

type Config struct {
	Camera struct {
		CropFactor float64 `yaml:"cropfactor"`
	} `yaml:"camera"`

	Lens struct {
		Maker      string  `yaml:"maker"`
		Model      string  `yaml:"model"`
		Type       string  `yaml:"type"`
		CropFactor float64 `yaml:"cropfactor"`
		Aspect     float64 `yaml:"aspect"`
		CenterX    float64 `yaml:"center_x"`
		CenterY    float64 `yaml:"center_y"`

		Distortion []map[string]any `yaml:"distortion"`
		TCA        []map[string]any `yaml:"tca"`
		Vignetting []map[string]any `yaml:"vignetting"`
	} `yaml:"lens"`

	Shooting struct {
		Focal    float64 `yaml:"focal"`
		Aperture float64 `yaml:"aperture"`
		Distance float64 `yaml:"distance"`
	} `yaml:"shooting"`

	Scale  float64 `yaml:"scale"`
	Target string  `yaml:"target"`
}

func LoadConfig(filename string) (Config, error) {
	var c Config
	contents, err := os.ReadFile(filename)
	if err != nil {
		return c, fmt.Errorf("read %q: %w", filename, err)
	}
	if err := yaml.Unmarshal(contents, &c); err != nil {
		return c, fmt.Errorf("parse %q: %w", filename, err)
	}
	return c, nil
}

var lensTypes = map[string]lens.LensType{
	"":                      lens.TypeRectilinear,
	"rectilinear":           lens.TypeRectilinear,
	"fisheye":               lens.TypeFisheye,
	"panoramic":             lens.TypePanoramic,
	"equirectangular":       lens.TypeEquirectangular,
	"fisheye_orthographic":  lens.TypeFisheyeOrthographic,
	"fisheye_stereographic": lens.TypeFisheyeStereographic,
	"fisheye_equisolid":     lens.TypeFisheyeEquisolid,
	"fisheye_thoby":         lens.TypeFisheyeThoby,
}

// BuildLens turns the config into a checked lens description.
func (c Config) BuildLens() (*lens.Lens, error) {
	lt, ok := lensTypes[c.Lens.Type]
	if !ok {
		return nil, fmt.Errorf("unknown lens type %q", c.Lens.Type)
	}
	l := &lens.Lens{
		Maker:       c.Lens.Maker,
		Model:       c.Lens.Model,
		Mounts:      []string{"config"},
		CropFactor:  c.Lens.CropFactor,
		AspectRatio: c.Lens.Aspect,
		CenterX:     c.Lens.CenterX,
		CenterY:     c.Lens.CenterY,
		Type:        lt,
	}

	for _, d := range c.Lens.Distortion {
		cd := lens.CalibDistortion{Focal: num(d, "focal")}
		switch d["model"] {
		case "poly3":
			cd.Model = lens.DistortionPoly3
			cd.Terms = [5]float64{num(d, "k1")}
		case "poly5":
			cd.Model = lens.DistortionPoly5
			cd.Terms = [5]float64{num(d, "k1"), num(d, "k2")}
		case "ptlens":
			cd.Model = lens.DistortionPTLens
			cd.Terms = [5]float64{num(d, "a"), num(d, "b"), num(d, "c")}
		case "acm":
			cd.Model = lens.DistortionACM
			cd.Terms = [5]float64{num(d, "k1"), num(d, "k2"), num(d, "k3"), num(d, "k4"), num(d, "k5")}
		default:
			return nil, fmt.Errorf("unknown distortion model %v", d["model"])
		}
		if rf, ok := d["real-focal"]; ok {
			cd.RealFocal = toFloat(rf)
			cd.RealFocalMeasured = true
		}
		l.AddCalibDistortion(cd)
	}

	for _, d := range c.Lens.TCA {
		ct := lens.CalibTCA{Focal: num(d, "focal")}
		switch d["model"] {
		case "linear":
			ct.Model = lens.TCALinear
			ct.Terms[0] = numDefault(d, "kr", 1)
			ct.Terms[1] = numDefault(d, "kb", 1)
		case "poly3":
			ct.Model = lens.TCAPoly3
			ct.Terms = [12]float64{
				numDefault(d, "vr", 1), numDefault(d, "vb", 1),
				num(d, "cr"), num(d, "cb"),
				num(d, "br"), num(d, "bb"),
			}
		case "acm":
			ct.Model = lens.TCAACM
			ct.Terms[0] = numDefault(d, "alpha0", 1)
			ct.Terms[1] = numDefault(d, "beta0", 1)
			for i := 1; i < 6; i++ {
				ct.Terms[2*i] = num(d, fmt.Sprintf("alpha%d", i))
				ct.Terms[2*i+1] = num(d, fmt.Sprintf("beta%d", i))
			}
		default:
			return nil, fmt.Errorf("unknown tca model %v", d["model"])
		}
		l.AddCalibTCA(ct)
	}

	for _, d := range c.Lens.Vignetting {
		cv := lens.CalibVignetting{
			Focal:    num(d, "focal"),
			Aperture: num(d, "aperture"),
			Distance: num(d, "distance"),
		}
		switch d["model"] {
		case "pa":
			cv.Model = lens.VignettingPA
			cv.Terms = [3]float64{num(d, "k1"), num(d, "k2"), num(d, "k3")}
		case "acm":
			cv.Model = lens.VignettingACM
			cv.Terms = [3]float64{num(d, "alpha1"), num(d, "alpha2"), num(d, "alpha3")}
		default:
			return nil, fmt.Errorf("unknown vignetting model %v", d["model"])
		}
		l.AddCalibVignetting(cv)
	}

	if err := l.Check(); err != nil {
		return nil, err
	}
	return l, nil
}

func num(m map[string]any, key string) float64 {
	return toFloat(m[key])
}

func numDefault(m map[string]any, key string, def float64) float64 {
	v, ok := m[key]
	if !ok {
		return def
	}
	return toFloat(v)
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return 0
}
