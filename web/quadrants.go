package web

// This file contains the grid debug view: the cell layout of the live
// renderer's quadrant grid, served as JSON.

import (
	"encoding/json"
	"net/http"

	"github.com/golang/glog"
)

// quadrantCell is the wire form of one grid cell.
type quadrantCell struct {
	Top     float64        `json:"top"`
	Right   float64        `json:"right"`
	Bottom  float64        `json:"bottom"`
	Left    float64        `json:"left"`
	Changed bool           `json:"changed"`
	Members map[string]int `json:"members"`
}

// quadrantsHandler reports the live grid row by row, with per-group member
// counts per cell, for inspecting cell streaming and dirty flags from a
// browser.
func (h *Handler) quadrantsHandler(w http.ResponseWriter, r *http.Request) {
	h.frameLock.Lock()
	defer h.frameLock.Unlock()

	if h.renderer == nil || h.renderer.Grid() == nil {
		http.Error(w, "no live grid attached", http.StatusNotFound)
		return
	}
	grid := h.renderer.Grid()

	var rows [][]quadrantCell
	for _, row := range grid.Rows() {
		cells := make([]quadrantCell, 0, len(row.Quadrants))
		for _, q := range row.Quadrants {
			c := quadrantCell{
				Top:     q.Top,
				Right:   q.Right,
				Bottom:  q.Bottom,
				Left:    q.Left,
				Changed: q.Changed,
				Members: map[string]int{},
			}
			for _, group := range grid.GroupNames() {
				c.Members[group] = len(q.Members(group))
			}
			cells = append(cells, c)
		}
		rows = append(rows, cells)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rows); err != nil {
		glog.Errorf("error encoding quadrant debug view: %v", err)
	}
}
