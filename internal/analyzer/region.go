package analyzer

import (
	"github.com/ironsheep/hextech-overlay/internal/capture"
	"github.com/ironsheep/hextech-overlay/internal/ocr"
)

// analyzeRegion runs the capture to match pipeline for one region using the
// calling worker's handles.
func (a *Analyzer) analyzeRegion(ar *arena, region Region, hero string) Result {
	log := a.log.With().Str("region", region.Key).Logger()

	c, err := ar.capture()
	if err != nil {
		log.Debug().Err(err).Msg("capture unavailable")
		return failed(region.Key, ErrCapture, err)
	}
	img, err := c.Capture(region.Rect)
	if err != nil {
		log.Debug().Err(err).Msg("capture failed")
		return failed(region.Key, ErrCapture, err)
	}
	prepared, err := capture.Preprocess(img, a.scale, a.contrast)
	if err != nil {
		log.Debug().Err(err).Msg("preprocess failed")
		return failed(region.Key, ErrCapture, err)
	}

	r, err := ar.recognize()
	if err != nil {
		log.Debug().Err(err).Msg("recognizer unavailable")
		return failed(region.Key, ErrNoText, err)
	}
	fragments, err := r.Recognize(prepared)
	if err != nil {
		log.Debug().Err(err).Msg("recognition failed")
		return failed(region.Key, ErrNoText, err)
	}
	text := ocr.Clean(fragments)
	if text == "" {
		return failed(region.Key, ErrNoText, nil)
	}

	augments, ok := a.heroes.Augments(hero)
	if !ok {
		res := failed(region.Key, ErrNoHeroData, nil)
		res.Recognized = text
		return res
	}

	if rec, ok := augments[text]; ok {
		log.Debug().Str("text", text).Msg("exact match")
		return matched(region.Key, text, rec)
	}

	name, score := a.matcher.BestMatch(text, a.names[hero])
	if rec, ok := augments[name]; ok && score > MatchThreshold {
		log.Debug().Str("text", text).Str("match", name).Int("score", score).Msg("approximate match")
		return matched(region.Key, text, rec)
	}

	log.Debug().Str("text", text).Str("closest", name).Int("score", score).Msg("no match")
	res := failed(region.Key, ErrUnrecognized, nil)
	res.Recognized = text
	return res
}
