// Package render bridges entity state to a display surface.
//
// The Adapter listens to registry change notifications, runs each
// changed record through the projection pipeline and pushes the result
// to a Surface implementation. The Surface is deliberately narrow
// (create-or-update a widget, flip a stale marker) so the rendering
// engine itself can live outside this module.
//
// Widgets are created lazily on first sight and ordered by
// (domain, object id), giving a stable grouped layout that never
// reshuffles as updates arrive.
package render
