package browser

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/apex/log"
	"github.com/teachstack/coursefs/pkg/cfsdb/stor"
	"github.com/teachstack/coursefs/pkg/quota"
	"github.com/teachstack/coursefs/pkg/zone"
)

// rootNameKinds maps (area, zone root folder name) to the storage kind, so
// a zone found on disk can be identified without consulting the database.
var rootNameKinds = buildRootNameKinds()

type areaRootName struct {
	area zone.Area
	name string
}

func buildRootNameKinds() map[areaRootName]zone.Kind {
	m := make(map[areaRootName]zone.Kind)
	for _, kind := range zone.Kinds() {
		d, _ := zone.Get(kind)
		if d.Kind != d.Storage {
			continue
		}
		m[areaRootName{d.Area, d.RootName}] = d.Kind
	}

	return m
}

// RecountZones walks every zone tree under the storage root, re-measures
// its usage from the filesystem (the ground truth) and refreshes the stored
// snapshots. Returns the number of zones recounted.
func (b *Browser) RecountZones(root string) (int, error) {
	count := 0

	// Institution, centre, degree, project and per-user trees share the
	// layout <area>/<shard>/<code>.
	flat := []struct {
		dir  string
		area zone.Area
	}{
		{"ins", zone.AreaIns},
		{"ctr", zone.AreaCtr},
		{"deg", zone.AreaDeg},
		{"prj", zone.AreaPrj},
		{"usr", zone.AreaUsr},
	}

	for _, f := range flat {
		instances, err := instanceDirs(filepath.Join(root, f.dir))
		if err != nil {
			return count, err
		}

		for _, inst := range instances {
			owner := int64(0)
			code := inst.code
			if f.area == zone.AreaUsr {
				owner = inst.code
				code = 0
			}
			count += b.recountInstance(inst.path, f.area, code, owner)
		}
	}

	courses, err := instanceDirs(filepath.Join(root, "crs"))
	if err != nil {
		return count, err
	}

	for _, crs := range courses {
		count += b.recountInstance(crs.path, zone.AreaCrs, crs.code, 0)

		groups, err := childDirs(filepath.Join(crs.path, "grp"))
		if err == nil {
			for _, grp := range groups {
				count += b.recountInstance(grp.path, zone.AreaGrp, grp.code, 0)
			}
		}

		users, err := instanceDirs(filepath.Join(crs.path, "usr"))
		if err == nil {
			for _, usr := range users {
				count += b.recountInstance(usr.path, zone.AreaCrsUsr, crs.code, usr.code)
			}
		}
	}

	return count, nil
}

// recountInstance measures every zone root folder found directly inside one
// instance directory.
func (b *Browser) recountInstance(instDir string, area zone.Area, code, owner int64) int {
	entries, err := os.ReadDir(instDir)
	if err != nil {
		return 0
	}

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		kind, ok := rootNameKinds[areaRootName{area, entry.Name()}]
		if !ok {
			continue
		}

		s, err := quota.MeasureConcurrent(filepath.Join(instDir, entry.Name()))
		if err != nil {
			log.WithError(err).Errorf("measuring zone %s in %s", entry.Name(), instDir)
			continue
		}

		key := stor.ZoneKey{Kind: kind, Code: code, Owner: owner}
		if err := b.stors.BrowserUsageStor.SaveSnapshot(key, s); err != nil {
			log.WithError(err).Errorf("saving snapshot for zone %s in %s", entry.Name(), instDir)
			continue
		}

		count++
	}

	return count
}

type numberedDir struct {
	path string
	code int64
}

// instanceDirs lists <shard>/<code> entries below dir, skipping anything
// not shaped like a numeric instance directory.
func instanceDirs(dir string) ([]numberedDir, error) {
	shards, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var dirs []numberedDir
	for _, shard := range shards {
		if !shard.IsDir() {
			continue
		}

		children, err := childDirs(filepath.Join(dir, shard.Name()))
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, children...)
	}

	return dirs, nil
}

// childDirs lists the numeric directories directly below dir.
func childDirs(dir string) ([]numberedDir, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var dirs []numberedDir
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		code, err := strconv.ParseInt(entry.Name(), 10, 64)
		if err != nil {
			continue
		}

		dirs = append(dirs, numberedDir{path: filepath.Join(dir, entry.Name()), code: code})
	}

	return dirs, nil
}
