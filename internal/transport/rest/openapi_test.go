package rest_test

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

// The served contract must stay in step with the route table in router.go.
var _ = ginkgo.Describe("OpenAPI document", func() {
	var doc *openapi3.T

	ginkgo.BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("../../../api/openapi.yml")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(doc.Validate(loader.Context)).To(gomega.Succeed())
	})

	ginkgo.It("should document every portal route", func() {
		expected := map[string][]string{
			"/register":       {http.MethodPost},
			"/register-staff": {http.MethodPost},
			"/login":          {http.MethodPost},
			"/staff-login":    {http.MethodPost},
			"/logout":         {http.MethodPost},
			"/users":          {http.MethodGet},
			"/payments":       {http.MethodPost, http.MethodGet},
			"/staffpayments":  {http.MethodGet},
			"/payments/{id}":  {http.MethodPatch},
			"/health":         {http.MethodGet},
		}

		for path, methods := range expected {
			item := doc.Paths.Value(path)
			gomega.Expect(item).ToNot(gomega.BeNil(), "missing path %s", path)
			for _, method := range methods {
				gomega.Expect(item.GetOperation(method)).ToNot(gomega.BeNil(), "missing %s %s", method, path)
			}
		}
	})

	ginkgo.It("should declare the session cookie security scheme", func() {
		scheme := doc.Components.SecuritySchemes["sessionCookie"]
		gomega.Expect(scheme).ToNot(gomega.BeNil())
		gomega.Expect(scheme.Value.Type).To(gomega.Equal("apiKey"))
		gomega.Expect(scheme.Value.In).To(gomega.Equal("cookie"))
		gomega.Expect(scheme.Value.Name).To(gomega.Equal("sid"))
	})

	ginkgo.It("should constrain the payment status to the three known values", func() {
		payment := doc.Components.Schemas["Payment"]
		gomega.Expect(payment).ToNot(gomega.BeNil())

		status := payment.Value.Properties["status"]
		gomega.Expect(status).ToNot(gomega.BeNil())
		gomega.Expect(status.Value.Enum).To(gomega.ConsistOf("Pending", "Completed", "Failed"))
	})
})
