package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/taskmaster-app/taskmaster/internal/auth"
	"github.com/taskmaster-app/taskmaster/internal/store"
	ws "github.com/taskmaster-app/taskmaster/internal/websocket"
)

type ListHandler struct {
	listStore *store.ListStore
	itemStore *store.ItemStore
	hub       *ws.Hub
	templates *template.Template
	logger    *slog.Logger
}

func NewListHandler(ls *store.ListStore, is *store.ItemStore, hub *ws.Hub, logger *slog.Logger) *ListHandler {
	return &ListHandler{
		listStore: ls,
		itemStore: is,
		hub:       hub,
		templates: parseTemplates(),
		logger:    logger,
	}
}

// MyList renders the user's lists and items, creating the default list on
// first visit.
func (h *ListHandler) MyList(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	lists, err := h.listStore.EnsureDefault(ac.UserID)
	if err != nil {
		h.logger.Error("ensure default list", "error", err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	items, err := h.itemStore.ListByUser(ac.UserID)
	if err != nil {
		h.logger.Error("list items", "error", err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	data := map[string]any{
		"Username": ac.Username,
		"Lists":    lists,
		"Items":    items,
	}
	render(w, h.logger, h.templates, "list.html", data)
}

// AddItem handles POST /add with fields newItem and optional listId.
func (h *ListHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	title := strings.TrimSpace(r.FormValue("newItem"))
	if title == "" {
		http.Redirect(w, r, "/mylist", http.StatusSeeOther)
		return
	}

	var listID *int64
	if raw := r.FormValue("listId"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			// Only attach to a list the caller owns; otherwise file as unlisted
			if l, err := h.listStore.GetByID(id, ac.UserID); err == nil && l != nil {
				listID = &l.ID
			}
		}
	}

	item, err := h.itemStore.Create(ac.UserID, title, listID)
	if err != nil {
		h.logger.Error("add item", "error", err)
		http.Redirect(w, r, "/mylist", http.StatusSeeOther)
		return
	}

	h.hub.BroadcastToUser(ac.UserID, ws.NewMessage("item", "created", item.ID))
	http.Redirect(w, r, "/mylist", http.StatusSeeOther)
}

// AddList handles POST /addList with field newList.
func (h *ListHandler) AddList(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	title := strings.TrimSpace(r.FormValue("newList"))
	if title == "" {
		http.Redirect(w, r, "/mylist", http.StatusSeeOther)
		return
	}

	list, err := h.listStore.Create(ac.UserID, title)
	if err != nil {
		h.logger.Error("add list", "error", err)
		http.Redirect(w, r, "/mylist", http.StatusSeeOther)
		return
	}

	h.hub.BroadcastToUser(ac.UserID, ws.NewMessage("list", "created", list.ID))
	http.Redirect(w, r, "/mylist", http.StatusSeeOther)
}

// EditItem handles POST /edit with fields updatedItemTitle and updatedItemId.
func (h *ListHandler) EditItem(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	title := strings.TrimSpace(r.FormValue("updatedItemTitle"))
	itemID, err := strconv.ParseInt(r.FormValue("updatedItemId"), 10, 64)
	if err != nil || title == "" {
		http.Redirect(w, r, "/mylist", http.StatusSeeOther)
		return
	}

	n, err := h.itemStore.UpdateTitle(itemID, ac.UserID, title)
	if err != nil {
		h.logger.Error("edit item", "error", err)
		http.Redirect(w, r, "/mylist", http.StatusSeeOther)
		return
	}
	if n == 0 {
		// Missing or not the caller's item; nothing to change
		h.logger.Warn("edit item no-op", "item_id", itemID, "user_id", ac.UserID)
		http.Redirect(w, r, "/mylist", http.StatusSeeOther)
		return
	}

	h.hub.BroadcastToUser(ac.UserID, ws.NewMessage("item", "updated", itemID))
	http.Redirect(w, r, "/mylist", http.StatusSeeOther)
}

// EditListTitle handles POST /editListTitle with fields listTitle (or
// updatedListTitle) and listId.
func (h *ListHandler) EditListTitle(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	title := strings.TrimSpace(r.FormValue("listTitle"))
	if title == "" {
		title = strings.TrimSpace(r.FormValue("updatedListTitle"))
	}
	listID, err := strconv.ParseInt(r.FormValue("listId"), 10, 64)
	if err != nil || title == "" {
		http.Redirect(w, r, "/mylist", http.StatusSeeOther)
		return
	}

	n, err := h.listStore.Rename(listID, ac.UserID, title)
	if err != nil {
		h.logger.Error("rename list", "error", err)
		http.Redirect(w, r, "/mylist", http.StatusSeeOther)
		return
	}
	if n == 0 {
		h.logger.Warn("rename list no-op", "list_id", listID, "user_id", ac.UserID)
		http.Redirect(w, r, "/mylist", http.StatusSeeOther)
		return
	}

	h.hub.BroadcastToUser(ac.UserID, ws.NewMessage("list", "renamed", listID))
	http.Redirect(w, r, "/mylist", http.StatusSeeOther)
}

// DeleteItem handles POST /delete with field deleteItem (the item id).
// Deleting an id that does not exist, or one owned by someone else, is a
// silent no-op.
func (h *ListHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	itemID, err := strconv.ParseInt(r.FormValue("deleteItem"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/mylist", http.StatusSeeOther)
		return
	}

	n, err := h.itemStore.Delete(itemID, ac.UserID)
	if err != nil {
		h.logger.Error("delete item", "error", err)
		http.Redirect(w, r, "/mylist", http.StatusSeeOther)
		return
	}
	if n > 0 {
		h.hub.BroadcastToUser(ac.UserID, ws.NewMessage("item", "deleted", itemID))
	}

	http.Redirect(w, r, "/mylist", http.StatusSeeOther)
}
