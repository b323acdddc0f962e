package docmodel

import (
	"github.com/specialistvlad/propgraph/internal/graphnode"
	"github.com/specialistvlad/propgraph/internal/propcache"
)

// ResolveProp wires the data queries of prop n into the deps graph. It is a
// no-op once the prop is resolved.
func (dm *DocumentModel) ResolveProp(n graphnode.Node) {
	dm.mustProp(n)
	dm.resolve(n.Index)
}

func (dm *DocumentModel) resolve(p int) {
	node := graphnode.Prop(p)
	if dm.propCache.Status(node) != propcache.StatusUnresolved {
		return
	}
	def := dm.props[p]

	for _, q := range def.updater.DataQueries() {
		qn := graphnode.Query(len(dm.queries))
		dm.queries = append(dm.queries, queryInfo{prop: p, query: q})
		dm.deps.AddNode(qn)
		dm.deps.AddEdge(node, qn)
		for _, answer := range dm.resolveQuery(p, q) {
			dm.deps.AddNode(answer)
			dm.deps.AddEdge(qn, answer)
		}
		def.queries = append(def.queries, qn)
	}

	dm.propCache.SetStatus(node, propcache.StatusResolved)
	dm.logger.Debug("Resolved prop.", "node", node, "prop", def.name, "component", def.component, "queries", len(def.queries))
}
