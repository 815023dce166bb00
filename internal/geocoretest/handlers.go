// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocoretest

import (
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	p := params(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	if p["project_id"] != ProjectID {
		writeFailure(w, "Auth.0002", "unknown project")
		return
	}
	pw, ok := s.passwords[p["id"]]
	if !ok || pw != p["password"] {
		writeFailure(w, "Auth.0001", "invalid user id or password")
		return
	}
	writeResult(w, Record{"token": s.issueLocked(p["id"])})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	body := readJSON(r)
	if body == nil {
		writeFailure(w, "Request.0001", "expecting user")
		return
	}
	password, _ := body["password"].(string)
	delete(body, "password")

	s.mu.Lock()
	defer s.mu.Unlock()
	if id, _ := body["id"].(string); id != "" {
		if _, exists := s.entities["users"][id]; exists {
			writeFailure(w, "User.0001", "user already exists")
			return
		}
	}
	stored := s.seedLocked("users", body)
	id := stored["id"].(string)
	s.passwords[id] = password
	if g := splitList(r.URL.Query().Get("group_ids")); len(g) > 0 {
		s.groups[id] = append(s.groups[id], g...)
	}
	writeResult(w, clone(stored))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	service := chi.URLParam(r, "service")
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.entities[service]
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeResult(w, filterByTags(sortedRecords(m), r))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	service, id := chi.URLParam(r, "service"), chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.entities[service]
	if !ok {
		http.NotFound(w, r)
		return
	}
	rec, ok := m[id]
	if !ok {
		writeFailure(w, "Request.0004", "not found: "+id)
		return
	}
	writeResult(w, clone(rec))
}

func (s *Server) handleGetAny(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.findLocked(id); ok {
		writeResult(w, clone(rec))
		return
	}
	writeFailure(w, "Request.0004", "not found: "+id)
}

func (s *Server) findLocked(id string) (Record, bool) {
	for _, m := range s.entities {
		if rec, ok := m[id]; ok {
			return rec, true
		}
	}
	return nil, false
}

// handleSave creates at /{service} or updates at /{service}/{id}. Tag and
// group changes arrive as query parameters.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	service, id := chi.URLParam(r, "service"), chi.URLParam(r, "id")
	body := readJSON(r)
	if body == nil {
		body = Record{}
	}
	query := r.URL.Query()

	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.entities[service]
	if !ok {
		http.NotFound(w, r)
		return
	}

	var stored Record
	if id == "" {
		stored = s.seedLocked(service, body)
	} else {
		existing, ok := m[id]
		if !ok {
			writeFailure(w, "Request.0004", "not found: "+id)
			return
		}
		for k, v := range body {
			if k == "sid" || k == "id" {
				continue
			}
			existing[k] = v
		}
		stored = existing
	}
	if service == "users" {
		if pw, ok := stored["password"].(string); ok {
			s.passwords[stored["id"].(string)] = pw
			delete(stored, "password")
		}
		if g := splitList(query.Get("group_ids")); len(g) > 0 {
			uid := stored["id"].(string)
			s.groups[uid] = append(s.groups[uid], g...)
		}
	}
	s.applyTagsLocked(stored, query.Get("tag_ids"), query.Get("tag_names"), query.Get("del_tag_ids"), query.Get("del_tag_names"))
	writeResult(w, clone(stored))
}

func (s *Server) applyTagsLocked(rec Record, addIDs, addNames, delIDs, delNames string) {
	tags := map[string]Record{}
	if existing, ok := rec["tags"].([]any); ok {
		for _, t := range existing {
			if tm, ok := t.(map[string]any); ok {
				if id, _ := tm["id"].(string); id != "" {
					tags[id] = tm
				}
			}
		}
	}
	for _, id := range splitList(addIDs) {
		if t, ok := s.entities["tags"][id]; ok {
			tags[id] = clone(t)
		} else {
			tags[id] = Record{"id": id}
		}
	}
	for _, name := range splitList(addNames) {
		t := s.tagByNameLocked(name)
		tags[t["id"].(string)] = clone(t)
	}
	for _, id := range splitList(delIDs) {
		delete(tags, id)
	}
	for _, name := range splitList(delNames) {
		for id, t := range tags {
			if t["name"] == name {
				delete(tags, id)
			}
		}
	}
	if len(tags) == 0 {
		delete(rec, "tags")
		return
	}
	list := make([]any, 0, len(tags))
	for _, t := range sortedRecords(tags) {
		list = append(list, t)
	}
	rec["tags"] = list
}

func (s *Server) tagByNameLocked(name string) Record {
	for _, t := range s.entities["tags"] {
		if t["name"] == name {
			return t
		}
	}
	return s.seedLocked("tags", Record{"name": name, "type": "USER_TAG"})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	service, id := chi.URLParam(r, "service"), chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.entities[service]
	if !ok {
		http.NotFound(w, r)
		return
	}
	rec, ok := m[id]
	if !ok {
		writeFailure(w, "Request.0004", "not found: "+id)
		return
	}
	delete(m, id)
	writeResult(w, rec)
}

// filterByTags keeps records carrying every tag id and name requested.
func filterByTags(recs []Record, r *http.Request) []Record {
	ids := splitList(r.URL.Query().Get("tag_ids"))
	names := splitList(r.URL.Query().Get("tag_names"))
	if len(ids) == 0 && len(names) == 0 {
		return recs
	}
	out := make([]Record, 0, len(recs))
	for _, rec := range recs {
		have := map[string]bool{}
		if tags, ok := rec["tags"].([]any); ok {
			for _, t := range tags {
				if tm, ok := t.(map[string]any); ok {
					if id, _ := tm["id"].(string); id != "" {
						have[id] = true
					}
					if name, _ := tm["name"].(string); name != "" {
						have[name] = true
					}
				}
			}
		}
		match := true
		for _, want := range append(ids, names...) {
			if !have[want] {
				match = false
				break
			}
		}
		if match {
			out = append(out, rec)
		}
	}
	return out
}

// Binaries

func (s *Server) handleListBins(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.bins[id]))
	for k := range s.bins[id] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	writeResult(w, keys)
}

func (s *Server) binInfo(id, key string, b *binary) Record {
	return Record{
		"key":           key,
		"url":           s.URL + "/files/" + id + "/" + key,
		"contentLength": len(b.data),
		"contentType":   b.contentType,
	}
}

func (s *Server) handleGetBin(w http.ResponseWriter, r *http.Request) {
	id, key := chi.URLParam(r, "id"), chi.URLParam(r, "key")
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bins[id][key]
	if !ok {
		writeFailure(w, "Request.0004", "no binary "+key)
		return
	}
	writeResult(w, s.binInfo(id, key, b))
}

func (s *Server) handleUploadBin(w http.ResponseWriter, r *http.Request) {
	id, key := chi.URLParam(r, "id"), chi.URLParam(r, "key")
	file, header, err := r.FormFile("data")
	if err != nil {
		writeFailure(w, "Request.0001", "expecting multipart data: "+err.Error())
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeFailure(w, "Request.0001", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.findLocked(id); !ok {
		writeFailure(w, "Request.0004", "not found: "+id)
		return
	}
	if s.bins[id] == nil {
		s.bins[id] = make(map[string]*binary)
	}
	b := &binary{contentType: header.Header.Get("Content-Type"), data: data}
	s.bins[id][key] = b
	writeResult(w, s.binInfo(id, key, b))
}

func (s *Server) handleDeleteBin(w http.ResponseWriter, r *http.Request) {
	id, key := chi.URLParam(r, "id"), chi.URLParam(r, "key")
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bins[id][key]
	if !ok {
		writeFailure(w, "Request.0004", "no binary "+key)
		return
	}
	delete(s.bins[id], key)
	writeResult(w, s.binInfo(id, key, b))
}

// Feeds

func (s *Server) handleListFeed(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := r.URL.Query()
	from, hasFrom := parseInt(q.Get("from_timestamp"))
	to, hasTo := parseInt(q.Get("to_timestamp"))

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Record{}
	for _, f := range s.feeds[id] {
		ts := f["timestamp"].(int64)
		if hasFrom && ts < from {
			continue
		}
		if hasTo && ts >= to {
			continue
		}
		out = append(out, clone(f))
	}
	writeResult(w, paginate(out, q.Get("page"), q.Get("num")))
}

func (s *Server) handlePostFeed(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	content := readJSON(r)
	if content == nil {
		writeFailure(w, "Request.0001", "expecting content")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSID++
	feed := Record{
		"id":         id,
		"type":       r.URL.Query().Get("type"),
		"timestamp":  s.nextSID * 1000,
		"objContent": content,
	}
	s.feeds[id] = append(s.feeds[id], feed)
	writeResult(w, clone(feed))
}

// AddFeed stores a feed entry with an explicit timestamp.
func (s *Server) AddFeed(objectID string, timestamp int64, content Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feeds[objectID] = append(s.feeds[objectID], Record{
		"id":         objectID,
		"timestamp":  timestamp,
		"objContent": content,
	})
}

func parseInt(s string) (int64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	return v, err == nil
}

func paginate(recs []Record, page, num string) []Record {
	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return recs
	}
	p, err := strconv.Atoi(page)
	if err != nil || p <= 0 {
		p = 1
	}
	start := (p - 1) * n
	if start >= len(recs) {
		return []Record{}
	}
	end := start + n
	if end > len(recs) {
		end = len(recs)
	}
	return recs[start:end]
}

// Places

func (s *Server) handleCheckin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	body := readJSON(r)
	if body == nil {
		writeFailure(w, "Request.0001", "expecting checkin")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entities["places"][id]; !ok {
		writeFailure(w, "Request.0004", "not found: "+id)
		return
	}
	// Checkins are written as strings and read back as numbers.
	out := Record{}
	for k, v := range body {
		str, ok := v.(string)
		if !ok {
			writeFailure(w, "Request.0001", "checkin field "+k+" must be a string")
			return
		}
		switch k {
		case "userId", "placeId":
			out[k] = str
		case "timestamp":
			n, err := strconv.ParseInt(str, 10, 64)
			if err != nil {
				writeFailure(w, "Request.0001", "bad timestamp")
				return
			}
			out[k] = n
		default:
			f, err := strconv.ParseFloat(str, 64)
			if err != nil {
				writeFailure(w, "Request.0001", "bad "+k)
				return
			}
			out[k] = f
		}
	}
	s.checkins = append(s.checkins, out)
	writeResult(w, clone(out))
}

func (s *Server) handlePlaceEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Record{}
	for _, pe := range s.placeEvents {
		if pe[0] == id {
			if ev, ok := s.entities["events"][pe[1]]; ok {
				out = append(out, clone(ev))
			}
		}
	}
	writeResult(w, out)
}

func (s *Server) handleEventPlaces(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Record{}
	for _, pe := range s.placeEvents {
		if pe[1] == id {
			if pl, ok := s.entities["places"][pe[0]]; ok {
				out = append(out, clone(pl))
			}
		}
	}
	writeResult(w, out)
}

func (s *Server) handlePlaceEventRels(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	byPlace := strings.HasPrefix(r.URL.Path, "/places/")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Record{}
	for _, pe := range s.placeEvents {
		if (byPlace && pe[0] == id) || (!byPlace && pe[1] == id) {
			out = append(out, Record{"pk": Record{
				"place": clone(s.entities["places"][pe[0]]),
				"event": clone(s.entities["events"][pe[1]]),
			}})
		}
	}
	writeResult(w, out)
}

type placeHit struct {
	rec      Record
	distance float64
	limit    float64
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	kind, shape := chi.URLParam(r, "kind"), chi.URLParam(r, "shape")
	q := r.URL.Query()
	num := func(key string) float64 {
		f, _ := strconv.ParseFloat(q.Get(key), 64)
		return f
	}
	lat, lon, radius := num("lat"), num("lon"), num("radius")

	s.mu.Lock()
	defer s.mu.Unlock()

	hits := []placeHit{}
	for _, rec := range sortedRecords(s.entities["places"]) {
		plat, plon, ok := pointOf(rec)
		if !ok {
			continue
		}
		limit, _ := rec["distanceLimit"].(float64)
		h := placeHit{rec: rec, limit: limit}
		switch {
		case shape == "rect":
			if plat < num("min_lat") || plat > num("max_lat") || plon < num("min_lon") || plon > num("max_lon") {
				continue
			}
		default:
			h.distance = haversine(lat, lon, plat, plon)
		}
		hits = append(hits, h)
	}

	switch {
	case kind == "nearest":
		if radius > 0 {
			kept := hits[:0]
			for _, h := range hits {
				if h.distance <= radius {
					kept = append(kept, h)
				}
			}
			hits = kept
		}
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].distance < hits[j].distance })
	case kind == "smallestbounds":
		kept := hits[:0]
		for _, h := range hits {
			if h.limit > 0 && h.distance <= h.limit {
				kept = append(kept, h)
			}
		}
		hits = kept
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].limit < hits[j].limit })
	case shape == "circle":
		kept := hits[:0]
		for _, h := range hits {
			reach := radius
			if kind == "intersects" {
				reach += h.limit
			}
			if h.distance <= reach {
				kept = append(kept, h)
			}
		}
		hits = kept
	}

	out := make([]Record, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.rec)
	}
	writeResult(w, filterByTags(out, r))
}

func pointOf(rec Record) (float64, float64, bool) {
	p, ok := rec["point"].(map[string]any)
	if !ok {
		return 0, 0, false
	}
	lat, ok1 := p["latitude"].(float64)
	lon, ok2 := p["longitude"].(float64)
	return lat, lon, ok1 && ok2
}

// haversine returns the great-circle distance in meters.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371000.0
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadius * math.Asin(math.Sqrt(a))
}

// User relationships

func relKey(uid, kind, oid, rel string) string {
	return uid + "/" + kind + "/" + oid + "/" + rel
}

var relSides = map[string]string{"events": "event", "places": "place", "items": "item"}

func (s *Server) handleSaveUserRel(w http.ResponseWriter, r *http.Request) {
	uid, kind := chi.URLParam(r, "id"), chi.URLParam(r, "kind")
	oid, rel := chi.URLParam(r, "oid"), chi.URLParam(r, "rel")
	side, ok := relSides[kind]
	if !ok {
		http.NotFound(w, r)
		return
	}
	body := readJSON(r)
	p := params(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.entities["users"][uid]
	if !ok {
		writeFailure(w, "Request.0004", "not found: "+uid)
		return
	}
	obj, ok := s.entities[kind][oid]
	if !ok {
		writeFailure(w, "Request.0004", "not found: "+oid)
		return
	}
	pk := Record{"user": clone(user), side: clone(obj)}
	if rel != "" {
		pk["relationship"] = rel
	}
	stored := Record{"pk": pk}
	// Without custom data, parameters such as amount travel as the body.
	_, amountInBody := body["amount"]
	if len(body) > 0 && (r.URL.RawQuery != "" || !amountInBody) {
		stored["customData"] = body
	}
	if amount, ok := parseInt(p["amount"]); ok {
		stored["amount"] = amount
	}
	s.userRels[relKey(uid, kind, oid, rel)] = stored
	writeResult(w, clone(stored))
}

func (s *Server) handleDeleteUserRel(w http.ResponseWriter, r *http.Request) {
	uid, kind := chi.URLParam(r, "id"), chi.URLParam(r, "kind")
	oid, rel := chi.URLParam(r, "oid"), chi.URLParam(r, "rel")

	s.mu.Lock()
	defer s.mu.Unlock()
	var removed Record
	if rel != "" {
		key := relKey(uid, kind, oid, rel)
		removed = s.userRels[key]
		delete(s.userRels, key)
	} else {
		prefix := uid + "/" + kind + "/" + oid + "/"
		for key, v := range s.userRels {
			if strings.HasPrefix(key, prefix) {
				removed = v
				delete(s.userRels, key)
			}
		}
	}
	if removed == nil {
		writeFailure(w, "Request.0004", "no relationship")
		return
	}
	writeResult(w, removed)
}

func (s *Server) handleListUserRels(w http.ResponseWriter, r *http.Request) {
	uid, kind := chi.URLParam(r, "id"), chi.URLParam(r, "kind")
	if _, ok := relSides[kind]; !ok {
		http.NotFound(w, r)
		return
	}
	prefix := uid + "/" + kind + "/"
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0)
	for key := range s.userRels {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	out := make([]Record, 0, len(keys))
	for _, key := range keys {
		out = append(out, clone(s.userRels[key]))
	}
	writeResult(w, out)
}
