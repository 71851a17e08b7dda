package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/pedigree/pkg/chart"
)

const fontFamily = "Helvetica, Arial, sans-serif"

const interactionCSS = `
    .person { cursor: default; }
    .person .symbol { transition: stroke-width 0.2s ease; }
    .person.highlight .symbol { stroke-width: 4; }
    .person.dim, .connector.dim { opacity: 0.35; }`

const interactionJS = `
    function lineage(id) {
      const keep = new Set([id]);
      document.querySelectorAll('.connector').forEach(c => {
        if (c.dataset.members.split(' ').includes(id)) c.dataset.members.split(' ').forEach(m => keep.add(m));
      });
      return keep;
    }
    document.querySelectorAll('.person').forEach(el => {
      el.addEventListener('mouseenter', () => {
        const keep = lineage(el.dataset.id);
        document.querySelectorAll('.person').forEach(p => {
          p.classList.toggle('highlight', p === el);
          p.classList.toggle('dim', !keep.has(p.dataset.id));
        });
      });
      el.addEventListener('mouseleave', () => {
        document.querySelectorAll('.person').forEach(p => p.classList.remove('highlight', 'dim'));
      });
    });`

const dragJS = `
    (function() {
      const svg = document.currentScript ? document.currentScript.ownerSVGElement : document.querySelector('svg');
      let drag = null;
      function point(evt) {
        const pt = svg.createSVGPoint();
        pt.x = evt.clientX; pt.y = evt.clientY;
        return pt.matrixTransform(svg.getScreenCTM().inverse());
      }
      document.querySelectorAll('.person').forEach(el => {
        el.style.cursor = 'move';
        el.addEventListener('mousedown', evt => { drag = el; evt.preventDefault(); });
      });
      svg.addEventListener('mousemove', evt => {
        if (!drag) return;
        const p = point(evt);
        drag.setAttribute('transform', 'translate(' + p.x + ',' + p.y + ')');
        drag.dataset.x = p.x; drag.dataset.y = p.y;
      });
      svg.addEventListener('mouseup', () => {
        if (!drag) return;
        const positions = {};
        positions[drag.dataset.id] = {x: parseFloat(drag.dataset.x), y: parseFloat(drag.dataset.y)};
        drag = null;
        fetch(%q, {method: 'POST', headers: {'Content-Type': 'application/json'},
          body: JSON.stringify({positions: positions})}).then(() => location.reload());
      });
    })();`

// Option configures SVG rendering.
type Option func(*renderer)

type renderer struct {
	labels      bool
	interactive bool
	dragURL     string
}

// WithLabels draws each person's name (or id) under the symbol.
func WithLabels() Option { return func(r *renderer) { r.labels = true } }

// WithInteraction highlights the hovered person's immediate family.
func WithInteraction() Option { return func(r *renderer) { r.interactive = true } }

// WithDragging makes symbols draggable. Each drop POSTs
// {"positions": {id: {"x", "y"}}} to url and reloads the page.
func WithDragging(url string) Option { return func(r *renderer) { r.dragURL = url } }

// Render returns the SVG document for c.
func Render(c *chart.Chart, opts ...Option) []byte {
	r := renderer{}
	for _, opt := range opts {
		opt(&r)
	}
	geom := c.Geometry
	if geom.Size <= 0 {
		geom = chart.DefaultGeometry()
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		c.Width, c.Height, c.Width, c.Height)
	buf.WriteString(`  <defs><marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse"><path d="M 0 0 L 10 5 L 0 10 z" fill="black"/></marker></defs>` + "\n")

	for _, cp := range c.Couples {
		renderCouple(&buf, c, cp, geom)
	}
	for _, n := range c.Nodes {
		renderPerson(&buf, n, geom, r.labels)
	}

	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", interactionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", interactionJS)
	}
	if r.dragURL != "" {
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", fmt.Sprintf(dragJS, r.dragURL))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderCouple(buf *bytes.Buffer, c *chart.Chart, cp chart.Couple, geom chart.Geometry) {
	m, okM := c.Node(cp.Mother)
	f, okF := c.Node(cp.Father)
	if !okM || !okF {
		return
	}
	kids := c.Children(cp)
	members := cp.Mother + " " + cp.Father
	for _, l := range kids {
		members += " " + l.Child
	}

	half := float64(geom.Size) / 2
	fmt.Fprintf(buf, `  <g class="connector" data-members="%s" stroke="black" stroke-width="1.5" fill="none">`+"\n", escape(members))

	left, right := m, f
	if f.X < m.X {
		left, right = f, m
	}
	fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
		left.X+half, left.Y, right.X-half, right.Y)

	if len(kids) == 0 {
		buf.WriteString("  </g>\n")
		return
	}

	mx := (m.X + f.X) / 2
	my := (m.Y + f.Y) / 2
	var bar float64
	for i, l := range kids {
		k, _ := c.Node(l.Child)
		if top := k.Y - half - float64(geom.VPadding); i == 0 || top < bar {
			bar = top
		}
	}
	fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", mx, my, mx, bar)
	for _, l := range kids {
		k, _ := c.Node(l.Child)
		fmt.Fprintf(buf, `    <polyline points="%.1f,%.1f %.1f,%.1f %.1f,%.1f"/>`+"\n",
			mx, bar, k.X, bar, k.X, k.Y-half)
	}
	buf.WriteString("  </g>\n")
}

func renderPerson(buf *bytes.Buffer, n chart.Node, geom chart.Geometry, labels bool) {
	s := float64(geom.Size)
	half := s / 2

	stroke, dash, width := "black", "", 1.5
	if n.Placeholder {
		stroke, dash = "grey", ` stroke-dasharray="4,3"`
	}
	if n.Proband {
		width = 3
	}

	fmt.Fprintf(buf, `  <g class="person" id="person-%s" data-id="%s" transform="translate(%.1f,%.1f)">`+"\n",
		escape(n.ID), escape(n.ID), n.X, n.Y)
	attrs := fmt.Sprintf(`class="symbol" fill="white" stroke="%s" stroke-width="%.1f"%s`, stroke, width, dash)
	switch n.Gender {
	case "Male":
		fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" %s/>`+"\n", -half, -half, s, s, attrs)
	case "Female":
		fmt.Fprintf(buf, `    <circle cx="0" cy="0" r="%.1f" %s/>`+"\n", half, attrs)
	default:
		fmt.Fprintf(buf, `    <polygon points="0,%.1f %.1f,0 0,%.1f %.1f,0" %s/>`+"\n", -half, half, half, -half, attrs)
	}
	if n.Deceased != "" {
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="black" stroke-width="1.5"/>`+"\n",
			-half-4, half+4, half+4, -half-4)
	}
	if n.Proband {
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="black" stroke-width="1.5" marker-end="url(#arrow)"/>`+"\n",
			-s-6, s+2, -half-2, half+2)
	}
	if label := n.Label(); labels && label != "" {
		fmt.Fprintf(buf, `    <text x="0" y="%.1f" text-anchor="middle" font-family="%s" font-size="11">%s</text>`+"\n",
			half+14, fontFamily, escape(label))
	}
	if n.Deceased != "" && labels && n.Deceased != "true" {
		fmt.Fprintf(buf, `    <text x="0" y="%.1f" text-anchor="middle" font-family="%s" font-size="9" fill="grey">d. %s</text>`+"\n",
			half+26, fontFamily, escape(n.Deceased))
	}
	buf.WriteString("  </g>\n")
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
