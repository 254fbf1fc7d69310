package metatags

import (
	"fmt"
	"os"
	"strings"
)

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// WriteSidecar writes a conventional XMP sidecar next to the asset and
// returns its path. pathNoExt is the asset path with its extension
// stripped.
func WriteSidecar(pathNoExt, title, desc string, keywords []string) (string, error) {
	items := make([]string, 0, len(keywords))
	for _, k := range keywords {
		items = append(items, fmt.Sprintf("          <rdf:li>%s</rdf:li>", xmlEscaper.Replace(k)))
	}

	content := fmt.Sprintf(`<?xpacket begin='' id='W5M0MpCehiHzreSzNTczkc9d'?>
<x:xmpmeta xmlns:x='adobe:ns:meta/'>
  <rdf:RDF xmlns:rdf='http://www.w3.org/1999/02/22-rdf-syntax-ns#'>
    <rdf:Description rdf:about=''
      xmlns:dc='http://purl.org/dc/elements/1.1/'>
      <dc:title>
        <rdf:Alt>
          <rdf:li xml:lang='x-default'>%s</rdf:li>
        </rdf:Alt>
      </dc:title>
      <dc:description>
        <rdf:Alt>
          <rdf:li xml:lang='x-default'>%s</rdf:li>
        </rdf:Alt>
      </dc:description>
      <dc:subject>
        <rdf:Bag>
%s
        </rdf:Bag>
      </dc:subject>
    </rdf:Description>
  </rdf:RDF>
</x:xmpmeta>
<?xpacket end='w'?>`, xmlEscaper.Replace(title), xmlEscaper.Replace(desc), strings.Join(items, "\n"))

	path := pathNoExt + ".xmp"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write sidecar: %w", err)
	}
	return path, nil
}
