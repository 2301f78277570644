package transmission

import (
	"torrentctl/internal/domain"
)

// wireFields maps a canonical field name to the torrent-get arguments that
// produce it. Several canonical fields are derived from more than one wire
// field.
var wireFields = map[string][]string{
	domain.FieldID:     {"id"},
	"hash":             {"hashString"},
	domain.FieldName:   {"name"},
	domain.FieldPath:   {"downloadDir"},
	domain.FieldStatus: {"status"},

	"ratio":    {"uploadRatio"},
	"private":  {"isPrivate"},
	"stalled":  {"isStalled"},
	"isolated": {"error"},

	"%downloaded": {"percentDone"},
	"%metadata":   {"metadataPercentComplete"},
	"%verified":   {"recheckProgress"},

	"peers-connected":   {"peersConnected"},
	"peers-uploading":   {"peersGettingFromUs"},
	"peers-downloading": {"peersSendingToUs"},
	"peers-seeding":     {"trackerStats"},

	"timestamp-created":                {"dateCreated"},
	"timestamp-added":                  {"addedDate"},
	"timestamp-started":                {"startDate"},
	"timestamp-active":                 {"activityDate"},
	"timestamp-done":                   {"doneDate"},
	domain.FieldManualAnnounceAllowed:  {"manualAnnounceTime"},
	"timespan-eta":                     {"eta"},

	"rate-down":               {"rateDownload"},
	"rate-up":                 {"rateUpload"},
	domain.FieldRateLimitUp:   {"uploadLimited", "uploadLimit"},
	domain.FieldRateLimitDown: {"downloadLimited", "downloadLimit"},

	"size-final":      {"sizeWhenDone"},
	"size-total":      {"totalSize"},
	"size-downloaded": {"downloadedEver"},
	"size-uploaded":   {"uploadedEver"},
	"size-available":  {"desiredAvailable", "haveValid", "haveUnchecked"},
	"size-corrupt":    {"corruptEver"},

	domain.FieldTrackers:  {"trackers"},
	domain.FieldFiles:     {"files", "fileStats"},
	domain.FieldFileStats: {"fileStats"},
}

// requestFields expands canonical fields into the deduplicated torrent-get
// argument list.
func requestFields(fields []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, f := range fields {
		for _, wf := range wireFields[f] {
			if _, ok := seen[wf]; ok {
				continue
			}
			seen[wf] = struct{}{}
			out = append(out, wf)
		}
	}
	return out
}

// Transmission status codes, torrent-get "status".
const (
	wireStatusStopped      = 0
	wireStatusCheckWait    = 1
	wireStatusCheck        = 2
	wireStatusDownloadWait = 3
	wireStatusDownload     = 4
	wireStatusSeedWait     = 5
	wireStatusSeed         = 6
)

func statusFromWire(code int64) domain.Status {
	switch code {
	case wireStatusCheckWait:
		return domain.StatusVerifyPending
	case wireStatusCheck:
		return domain.StatusVerifying
	case wireStatusDownloadWait:
		return domain.StatusLeechPending
	case wireStatusDownload:
		return domain.StatusLeeching
	case wireStatusSeedWait:
		return domain.StatusSeedPending
	case wireStatusSeed:
		return domain.StatusSeeding
	}
	return domain.StatusStopped
}

// decodeTorrent rewrites one wire record into canonical field names with
// raw values the field registry can convert.
func decodeTorrent(fields []string, rec map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		if v, ok := decodeField(f, rec); ok {
			out[f] = v
		}
	}
	return out
}

func decodeField(field string, rec map[string]any) (any, bool) {
	switch field {
	case domain.FieldID:
		return rec["id"], rec["id"] != nil
	case "hash":
		return rec["hashString"], rec["hashString"] != nil
	case domain.FieldName:
		return rec["name"], rec["name"] != nil
	case domain.FieldPath:
		return rec["downloadDir"], rec["downloadDir"] != nil
	case domain.FieldStatus:
		code, ok := wireInt(rec["status"])
		if !ok {
			return nil, false
		}
		return string(statusFromWire(code)), true
	case "ratio":
		return rec["uploadRatio"], rec["uploadRatio"] != nil
	case "private":
		return rec["isPrivate"], rec["isPrivate"] != nil
	case "stalled":
		return rec["isStalled"], rec["isStalled"] != nil
	case "isolated":
		code, ok := wireInt(rec["error"])
		return code == 3, ok
	case "%downloaded":
		return wirePercent(rec["percentDone"])
	case "%metadata":
		return wirePercent(rec["metadataPercentComplete"])
	case "%verified":
		return wirePercent(rec["recheckProgress"])
	case "peers-connected":
		return rec["peersConnected"], rec["peersConnected"] != nil
	case "peers-uploading":
		return rec["peersGettingFromUs"], rec["peersGettingFromUs"] != nil
	case "peers-downloading":
		return rec["peersSendingToUs"], rec["peersSendingToUs"] != nil
	case "peers-seeding":
		return seedersFromTrackerStats(rec["trackerStats"])
	case "timestamp-created":
		return rec["dateCreated"], rec["dateCreated"] != nil
	case "timestamp-added":
		return rec["addedDate"], rec["addedDate"] != nil
	case "timestamp-started":
		return rec["startDate"], rec["startDate"] != nil
	case "timestamp-active":
		return rec["activityDate"], rec["activityDate"] != nil
	case "timestamp-done":
		return rec["doneDate"], rec["doneDate"] != nil
	case domain.FieldManualAnnounceAllowed:
		return rec["manualAnnounceTime"], rec["manualAnnounceTime"] != nil
	case "timespan-eta":
		return rec["eta"], rec["eta"] != nil
	case "rate-down":
		return rec["rateDownload"], rec["rateDownload"] != nil
	case "rate-up":
		return rec["rateUpload"], rec["rateUpload"] != nil
	case domain.FieldRateLimitUp:
		return rateLimitFromWire(rec["uploadLimited"], rec["uploadLimit"])
	case domain.FieldRateLimitDown:
		return rateLimitFromWire(rec["downloadLimited"], rec["downloadLimit"])
	case "size-final":
		return rec["sizeWhenDone"], rec["sizeWhenDone"] != nil
	case "size-total":
		return rec["totalSize"], rec["totalSize"] != nil
	case "size-downloaded":
		return rec["downloadedEver"], rec["downloadedEver"] != nil
	case "size-uploaded":
		return rec["uploadedEver"], rec["uploadedEver"] != nil
	case "size-available":
		return availableFromWire(rec)
	case "size-corrupt":
		return rec["corruptEver"], rec["corruptEver"] != nil
	case domain.FieldTrackers:
		return trackersFromWire(rec["trackers"])
	case domain.FieldFiles:
		return filesFromWire(rec["files"], rec["fileStats"])
	case domain.FieldFileStats:
		return fileStatsFromWire(rec["fileStats"])
	}
	return nil, false
}

func wireInt(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}

func wireFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

// wirePercent converts Transmission's 0..1 fractions to 0..100.
func wirePercent(v any) (any, bool) {
	f, ok := wireFloat(v)
	if !ok {
		return nil, false
	}
	return f * 100, true
}

// rateLimitFromWire merges the limited flag and the kilobyte limit into a
// byte rate, with -1 meaning unlimited.
func rateLimitFromWire(limited, limit any) (any, bool) {
	on, ok := limited.(bool)
	if !ok {
		return nil, false
	}
	if !on {
		return float64(-1), true
	}
	kb, ok := wireFloat(limit)
	if !ok {
		return nil, false
	}
	return kb * 1000, true
}

func availableFromWire(rec map[string]any) (any, bool) {
	desired, ok1 := wireFloat(rec["desiredAvailable"])
	valid, ok2 := wireFloat(rec["haveValid"])
	unchecked, ok3 := wireFloat(rec["haveUnchecked"])
	if !ok1 || !ok2 || !ok3 {
		return nil, false
	}
	return desired + valid + unchecked, true
}

func seedersFromTrackerStats(v any) (any, bool) {
	stats, ok := v.([]any)
	if !ok {
		return nil, false
	}
	best := int64(-1)
	for _, s := range stats {
		rec, ok := s.(map[string]any)
		if !ok {
			continue
		}
		if n, ok := wireInt(rec["seederCount"]); ok && n > best {
			best = n
		}
	}
	return best, true
}

func trackersFromWire(v any) (any, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	trackers := make([]domain.Tracker, 0, len(list))
	for _, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, _ := wireInt(rec["id"])
		announce, _ := rec["announce"].(string)
		trackers = append(trackers, domain.Tracker{ID: int(id), Announce: announce})
	}
	return trackers, true
}

func filesFromWire(files, stats any) (any, bool) {
	flist, ok := files.([]any)
	if !ok {
		return nil, false
	}
	slist, _ := stats.([]any)
	infos := make([]domain.FileInfo, 0, len(flist))
	for i, item := range flist {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := rec["name"].(string)
		length, _ := wireInt(rec["length"])
		done, _ := wireInt(rec["bytesCompleted"])
		fi := domain.FileInfo{
			Index:          i,
			Name:           name,
			SizeTotal:      length,
			SizeDownloaded: done,
			Wanted:         true,
			Priority:       domain.PriorityNormal,
		}
		if i < len(slist) {
			if srec, ok := slist[i].(map[string]any); ok {
				if w, ok := srec["wanted"].(bool); ok {
					fi.Wanted = w
				}
				if p, ok := wireInt(srec["priority"]); ok {
					fi.Priority = domain.FilePriority(p)
				}
			}
		}
		infos = append(infos, fi)
	}
	return infos, true
}

func fileStatsFromWire(v any) (any, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	stats := make([]domain.FileStat, 0, len(list))
	for _, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		done, _ := wireInt(rec["bytesCompleted"])
		wanted, _ := rec["wanted"].(bool)
		prio, _ := wireInt(rec["priority"])
		stats = append(stats, domain.FileStat{
			SizeDownloaded: done,
			Wanted:         wanted,
			Priority:       domain.FilePriority(prio),
		})
	}
	return stats, true
}
