// Package assets implements the Asset Store (C3): a read-only resolver
// from logical reference names to on-disk image paths.
package assets

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskpilot/droidtask/internal/constants"
	"github.com/taskpilot/droidtask/internal/contracts"
	"github.com/taskpilot/droidtask/internal/domain"
)

// defaultCacheTTL bounds how long a resolved name is trusted before the
// store re-walks the filesystem; images are static at runtime, so this is
// generous.
const defaultCacheTTL = 10 * time.Minute

// Resolver resolves logical reference names to image paths for one
// handler's image root, per §4.3's resolution order: cache, alias table,
// exact file, contacts/ sub-space, fuzzy match, not found.
type Resolver struct {
	root    string
	aliases map[string]string
	cache   *ttlCache
	logger  zerolog.Logger
}

// NewResolver constructs a Resolver rooted at imagesRoot (a handler's
// images/ directory), loading aliasPath if present.
func NewResolver(imagesRoot, aliasPath string, logger zerolog.Logger) (*Resolver, error) {
	aliases, err := loadAliases(aliasPath)
	if err != nil {
		return nil, err
	}
	return &Resolver{
		root:    imagesRoot,
		aliases: aliases,
		cache:   newTTLCache(defaultCacheTTL),
		logger:  logger,
	}, nil
}

// Compile-time check that Resolver implements contracts.AssetResolver.
var _ contracts.AssetResolver = (*Resolver)(nil)

// Resolve returns name's image variants. A reference that cannot be found
// by any resolution step returns an empty slice with a nil error, per
// §3 "Missing references return empty, not error."
func (r *Resolver) Resolve(name string) (domain.ImageVariants, error) {
	if variants, ok := r.cache.get(name); ok {
		return variants, nil
	}

	realName := name
	if aliased, ok := r.aliases[name]; ok {
		realName = aliased
	}

	if path, ok := r.findExact(r.root, realName); ok {
		variants := r.withVariants(filepath.Dir(path), stem(path), filepath.Ext(path))
		r.cache.set(name, variants)
		return variants, nil
	}

	contactsRoot := filepath.Join(r.root, constants.ContactsSubDir)
	if path, ok := r.findExact(contactsRoot, realName); ok {
		variants := r.withVariants(filepath.Dir(path), stem(path), filepath.Ext(path))
		r.cache.set(name, variants)
		return variants, nil
	}

	if path, ok := r.fuzzyMatch(r.root, realName); ok {
		variants := r.withVariants(filepath.Dir(path), stem(path), filepath.Ext(path))
		r.cache.set(name, variants)
		return variants, nil
	}
	if path, ok := r.fuzzyMatch(contactsRoot, realName); ok {
		variants := r.withVariants(filepath.Dir(path), stem(path), filepath.Ext(path))
		r.cache.set(name, variants)
		return variants, nil
	}

	r.logger.Debug().Str("component", "assets").Str("name", name).Str("real_name", realName).Msg("reference name not found")
	return nil, nil
}

// findExact checks dir for realName with each supported extension, PNG first.
func (r *Resolver) findExact(dir, realName string) (string, bool) {
	for _, ext := range constants.SupportedImageExtensions {
		path := filepath.Join(dir, realName+ext)
		if fileExists(path) {
			return path, true
		}
	}
	return "", false
}

// fuzzyMatch performs a case-insensitive substring match on file stems
// within dir (non-recursive), returning the hit whose stem the name covers
// most closely (name length / stem length) and logging runner-up
// candidates and their similarity scores for alias-table tuning.
func (r *Resolver) fuzzyMatch(dir, realName string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	needle := strings.ToLower(realName)
	var best string
	var bestScore float64
	var runnersUp []domain.FuzzyCandidate

	for _, entry := range entries {
		if entry.IsDir() || !hasSupportedExtension(entry.Name()) {
			continue
		}
		candidateStem := strings.ToLower(stem(entry.Name()))
		if !strings.Contains(candidateStem, needle) {
			continue
		}
		score := float64(len(needle)) / float64(len(candidateStem))
		if best == "" || score > bestScore {
			if best != "" {
				runnersUp = append(runnersUp, domain.FuzzyCandidate{Name: best, Score: bestScore})
			}
			best = entry.Name()
			bestScore = score
		} else {
			runnersUp = append(runnersUp, domain.FuzzyCandidate{Name: entry.Name(), Score: score})
		}
	}

	if best == "" {
		return "", false
	}
	if len(runnersUp) > 0 {
		r.logger.Debug().Str("component", "assets").Str("matched", best).Interface("runners_up", runnersUp).Msg("fuzzy match resolved among multiple candidates")
	}
	return filepath.Join(dir, best), true
}

// withVariants returns mainStem's path followed by any _v2, _v3, … siblings
// in the same directory, by convention starting at _v2.
func (r *Resolver) withVariants(dir, mainStem, ext string) domain.ImageVariants {
	variants := domain.ImageVariants{filepath.Join(dir, mainStem+ext)}
	for i := constants.FirstVariantIndex; ; i++ {
		candidate := filepath.Join(dir, mainStem+"_v"+strconv.Itoa(i)+ext)
		if !fileExists(candidate) {
			break
		}
		variants = append(variants, candidate)
	}
	return variants
}

// List walks the images root plus its system/ and contacts/ sub-spaces and
// returns every resolvable logical name (file stem, variants collapsed to
// their main name).
func (r *Resolver) List() ([]string, error) {
	seen := make(map[string]bool)
	var names []string

	for _, dir := range []string{r.root, filepath.Join(r.root, constants.SystemSubDir), filepath.Join(r.root, constants.ContactsSubDir)} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !hasSupportedExtension(entry.Name()) {
				continue
			}
			name := stem(entry.Name())
			if isVariantName(name) {
				continue
			}
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func hasSupportedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, supported := range constants.SupportedImageExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

func stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// isVariantName reports whether a stem ends in _v<N>, N >= FirstVariantIndex.
func isVariantName(stemName string) bool {
	idx := strings.LastIndex(stemName, "_v")
	if idx == -1 {
		return false
	}
	suffix := stemName[idx+2:]
	if suffix == "" {
		return false
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return false
		}
	}
	n, err := strconv.Atoi(suffix)
	return err == nil && n >= constants.FirstVariantIndex
}
