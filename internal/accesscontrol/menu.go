package accesscontrol

// MenuEntry is one item of the static admin menu. Section is nil for
// entries gated by role alone, such as the dashboard landing page.
type MenuEntry struct {
	Href         string   `json:"href"`
	Label        string   `json:"label"`
	AllowedRoles []Role   `json:"-"`
	Section      *Section `json:"section,omitempty"`
}

func (e MenuEntry) RoleAllowed(role Role) bool {
	for _, r := range e.AllowedRoles {
		if r == role {
			return true
		}
	}
	return false
}

func sectionRef(s Section) *Section { return &s }

var (
	everyone   = []Role{RoleAdmin, RoleDepartmentLead, RoleEditor}
	leadership = []Role{RoleAdmin, RoleDepartmentLead}
	adminOnly  = []Role{RoleAdmin}
)

// adminMenu is the full admin menu in render order. Role lists are the
// hard prerequisite; section tags feed the override layer.
var adminMenu = []MenuEntry{
	{Href: "/admin", Label: "Painel", AllowedRoles: everyone},
	{Href: "/admin/gestao-municipal", Label: "Gestão Municipal", AllowedRoles: leadership, Section: sectionRef(SectionGestaoMunicipal)},
	{Href: "/admin/secretarias", Label: "Secretarias", AllowedRoles: leadership, Section: sectionRef(SectionSecretarias)},
	{Href: "/admin/turismo", Label: "Turismo", AllowedRoles: leadership, Section: sectionRef(SectionTurismo)},
	{Href: "/admin/licitacoes", Label: "Licitações", AllowedRoles: leadership, Section: sectionRef(SectionLicitacoes)},
	{Href: "/admin/editais", Label: "Editais", AllowedRoles: leadership, Section: sectionRef(SectionEditais)},
	{Href: "/admin/emendas", Label: "Emendas", AllowedRoles: leadership, Section: sectionRef(SectionEmendas)},
	{Href: "/admin/noticias", Label: "Notícias", AllowedRoles: everyone, Section: sectionRef(SectionNoticias)},
	{Href: "/admin/galeria", Label: "Galeria de Mídia", AllowedRoles: everyone, Section: sectionRef(SectionGaleria)},
	{Href: "/admin/usuarios", Label: "Usuários", AllowedRoles: adminOnly, Section: sectionRef(SectionUsuarios)},
	{Href: "/admin/permissoes", Label: "Permissões", AllowedRoles: adminOnly, Section: sectionRef(SectionPermissoes)},
	{Href: "/admin/configuracoes", Label: "Configurações", AllowedRoles: adminOnly, Section: sectionRef(SectionConfiguracoes)},
	{Href: "/admin/transparencia", Label: "Portal da Transparência", AllowedRoles: leadership, Section: sectionRef(SectionTransparencia)},
}

// AdminMenu returns the static menu in render order.
func AdminMenu() []MenuEntry {
	out := make([]MenuEntry, len(adminMenu))
	copy(out, adminMenu)
	return out
}

// EntryForSection returns the menu entry tagged with the given section.
func EntryForSection(s Section) (MenuEntry, bool) {
	for _, e := range adminMenu {
		if e.Section != nil && *e.Section == s {
			return e, true
		}
	}
	return MenuEntry{}, false
}
