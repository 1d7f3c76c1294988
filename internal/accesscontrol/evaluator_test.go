package accesscontrol_test

import (
	"github.com/framil09/prefeitura--sub000/internal/accesscontrol"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func entryOf(section accesscontrol.Section) accesscontrol.MenuEntry {
	entry, ok := accesscontrol.EntryForSection(section)
	Expect(ok).To(BeTrue(), "no menu entry for section %s", section)
	return entry
}

func overridesOf(rows ...accesscontrol.Override) accesscontrol.OverrideSet {
	return accesscontrol.NewOverrideSet(rows)
}

var _ = Describe("CanAccess", func() {
	var (
		admin  accesscontrol.Identity
		lead   accesscontrol.Identity
		editor accesscontrol.Identity
	)

	BeforeEach(func() {
		admin = accesscontrol.Identity{UserID: 1, Role: accesscontrol.RoleAdmin}
		lead = accesscontrol.Identity{UserID: 2, Role: accesscontrol.RoleDepartmentLead}
		editor = accesscontrol.Identity{UserID: 3, Role: accesscontrol.RoleEditor}
	})

	Describe("role gate", func() {
		It("denies entries whose role list excludes the caller, regardless of overrides", func() {
			usuarios := entryOf(accesscontrol.SectionUsuarios)

			granted := overridesOf(accesscontrol.Override{
				UserID: editor.UserID, Section: accesscontrol.SectionUsuarios, Allowed: true,
			})

			Expect(accesscontrol.CanAccess(editor, usuarios, granted)).To(BeFalse())
			Expect(accesscontrol.CanAccess(lead, usuarios, granted)).To(BeFalse())
		})

		It("denies every section the role list forbids, for every role", func() {
			for _, entry := range accesscontrol.AdminMenu() {
				for _, id := range []accesscontrol.Identity{admin, lead, editor} {
					if !entry.RoleAllowed(id.Role) {
						Expect(accesscontrol.CanAccess(id, entry, overridesOf())).To(BeFalse())
					}
				}
			}
		})
	})

	Describe("sectionless entries", func() {
		It("allows the dashboard entry on role alone", func() {
			dashboard := accesscontrol.AdminMenu()[0]
			Expect(dashboard.Section).To(BeNil())

			denied := overridesOf(accesscontrol.Override{
				UserID: editor.UserID, Section: accesscontrol.SectionDashboard, Allowed: false,
			})

			// The dashboard menu entry has no section tag, so even an
			// explicit dashboard denial does not apply to it.
			Expect(accesscontrol.CanAccess(editor, dashboard, denied)).To(BeTrue())
		})
	})

	Describe("administrator bypass", func() {
		It("ignores overrides entirely for admins", func() {
			for _, sec := range accesscontrol.Sections() {
				entry, ok := accesscontrol.EntryForSection(sec)
				if !ok {
					continue
				}
				denied := overridesOf(accesscontrol.Override{
					UserID: admin.UserID, Section: sec, Allowed: false,
				})
				Expect(accesscontrol.CanAccess(admin, entry, denied)).To(BeTrue())
			}
		})
	})

	Describe("fail-open default", func() {
		It("allows every role-permitted section for a user with zero override rows", func() {
			for _, entry := range accesscontrol.AdminMenu() {
				if entry.RoleAllowed(accesscontrol.RoleDepartmentLead) {
					Expect(accesscontrol.CanAccess(lead, entry, overridesOf())).To(BeTrue())
				}
			}
		})
	})

	Describe("deny-list semantics with at least one row", func() {
		It("denies exactly the sections with an explicit false row", func() {
			rows := overridesOf(
				accesscontrol.Override{UserID: lead.UserID, Section: accesscontrol.SectionLicitacoes, Allowed: false},
				accesscontrol.Override{UserID: lead.UserID, Section: accesscontrol.SectionEditais, Allowed: true},
			)

			Expect(accesscontrol.CanAccess(lead, entryOf(accesscontrol.SectionLicitacoes), rows)).To(BeFalse())
			Expect(accesscontrol.CanAccess(lead, entryOf(accesscontrol.SectionEditais), rows)).To(BeTrue())
			// No row for emendas, but the set is non-empty: default-allow
			// still applies per section.
			Expect(accesscontrol.CanAccess(lead, entryOf(accesscontrol.SectionEmendas), rows)).To(BeTrue())
		})
	})

	Describe("scenarios", func() {
		It("editor with zero overrides sees the dashboard but never the users area", func() {
			dashboard := accesscontrol.AdminMenu()[0]
			Expect(accesscontrol.CanAccess(editor, dashboard, overridesOf())).To(BeTrue())
			Expect(accesscontrol.CanAccess(editor, entryOf(accesscontrol.SectionUsuarios), overridesOf())).To(BeFalse())
		})

		It("department lead with a single licitacoes denial keeps noticias", func() {
			rows := overridesOf(accesscontrol.Override{
				UserID: lead.UserID, Section: accesscontrol.SectionLicitacoes, Allowed: false,
			})

			Expect(accesscontrol.CanAccess(lead, entryOf(accesscontrol.SectionLicitacoes), rows)).To(BeFalse())
			Expect(accesscontrol.CanAccess(lead, entryOf(accesscontrol.SectionNoticias), rows)).To(BeTrue())
		})
	})
})

var _ = Describe("FilterMenu", func() {
	It("preserves the original entry order", func() {
		lead := accesscontrol.Identity{UserID: 2, Role: accesscontrol.RoleDepartmentLead}
		rows := accesscontrol.NewOverrideSet([]accesscontrol.Override{
			{UserID: 2, Section: accesscontrol.SectionTurismo, Allowed: false},
		})

		visible := accesscontrol.FilterMenu(lead, accesscontrol.AdminMenu(), rows)

		hrefs := make([]string, 0, len(visible))
		for _, entry := range visible {
			hrefs = append(hrefs, entry.Href)
		}
		Expect(hrefs).To(Equal([]string{
			"/admin",
			"/admin/gestao-municipal",
			"/admin/secretarias",
			"/admin/licitacoes",
			"/admin/editais",
			"/admin/emendas",
			"/admin/noticias",
			"/admin/galeria",
			"/admin/transparencia",
		}))
	})

	It("returns the full menu for an administrator", func() {
		admin := accesscontrol.Identity{UserID: 1, Role: accesscontrol.RoleAdmin}
		visible := accesscontrol.FilterMenu(admin, accesscontrol.AdminMenu(), accesscontrol.NewOverrideSet(nil))
		Expect(visible).To(HaveLen(len(accesscontrol.AdminMenu())))
	})
})

var _ = Describe("ParseSection", func() {
	It("accepts every canonical section", func() {
		for _, sec := range accesscontrol.Sections() {
			parsed, err := accesscontrol.ParseSection(string(sec))
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(sec))
		}
	})

	It("rejects sections outside the closed enumeration", func() {
		_, err := accesscontrol.ParseSection("financeiro")
		Expect(err).To(HaveOccurred())
	})
})
