package output

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"retreat-quote/core/types"
)

// Branding is the venue identity printed on documents
type Branding struct {
	VenueName string
	VenueURL  string

	// LogoDataURI is an inline data: URI, empty for no logo
	LogoDataURI string
}

// HTMLFormatter renders the A4 quote document
type HTMLFormatter struct {
	Branding Branding

	// Now is used for the document date; time.Now when nil
	Now func() time.Time
}

// Format returns the format type
func (f *HTMLFormatter) Format() Format {
	return FormatHTML
}

type documentView struct {
	Brand     Branding
	Logo      template.URL
	Ref       string
	Date      string
	Quote     *documentQuote
	B         *types.Breakdown
	Trainee   []documentLine
	Organizer []documentLine
	Upgrade   *documentUpgrade
	Totals    template.JS
}

type documentQuote struct {
	Name      string
	Email     string
	Phone     string
	EventName string
	Activity  string
	From      string
	To        string
	StartTime string
	EndTime   string
}

type documentLine struct {
	Label  string
	Amount string
}

type documentUpgrade struct {
	Formula         string
	PricePerTrainee string
	Delta           string
}

// Render writes the document
func (f *HTMLFormatter) Render(w io.Writer, result *Result) error {
	if result == nil || result.Breakdown == nil {
		return fmt.Errorf("nothing to render")
	}
	b := result.Breakdown
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}

	totals, err := TotalsOf(b).encode()
	if err != nil {
		return err
	}

	view := documentView{
		Brand:  f.Branding,
		Date:   now().Format("02/01/2006"),
		B:      b,
		Totals: template.JS(totals),
	}
	if strings.HasPrefix(f.Branding.LogoDataURI, "data:image/") {
		view.Logo = template.URL(f.Branding.LogoDataURI)
	}

	if q := result.Quote; q != nil {
		view.Ref = q.Ref()
		view.Quote = &documentQuote{
			Name:      q.Client.FullName(),
			Email:     q.Client.Email,
			Phone:     q.Client.Phone,
			EventName: q.Client.EventName,
			Activity:  q.Event.Activity.Label(),
			From:      FrenchDate(q.Event.Start),
			To:        FrenchDate(q.Event.End),
			StartTime: orDash(q.Event.StartTime),
			EndTime:   orDash(q.Event.EndTime),
		}
	}

	view.Trainee = append(view.Trainee, documentLine{"Hébergement & pension", Money(b.BaseTrainees)})
	if b.MaterialPaidBy == types.PayerParticipant && b.MaterialsTotal.IsPositive() {
		view.Trainee = append(view.Trainee, documentLine{"Options & matériel", Money(b.MaterialsTotal)})
	}

	view.Organizer = append(view.Organizer, documentLine{
		fmt.Sprintf("Animateur principal (remise %d%%)", b.PrimaryFacilitator.DiscountPercent),
		Money(b.PrimaryFacilitator.AmountToPay),
	})
	if s := b.SecondaryFacilitator; s != nil {
		view.Organizer = append(view.Organizer, documentLine{
			fmt.Sprintf("Intervenant suppl. (remise %d%%)", s.DiscountPercent),
			Money(s.AmountToPay),
		})
	}
	view.Organizer = append(view.Organizer, documentLine{"Location salle (" + b.Room.Label() + ")", Money(b.RoomTotal)})
	if b.Privatization.IsPositive() {
		view.Organizer = append(view.Organizer, documentLine{
			fmt.Sprintf("Privatisation (%d chambres libres)", b.EmptyRooms),
			Money(b.Privatization),
		})
	}
	if b.MaterialPaidBy == types.PayerOrganizer && b.MaterialsTotal.IsPositive() {
		view.Organizer = append(view.Organizer, documentLine{"Options & matériel", Money(b.MaterialsTotal)})
	}

	if c := result.Comparison; c != nil && c.Upgrade != nil {
		view.Upgrade = &documentUpgrade{
			Formula:         c.Upgrade.Formula.Label(),
			PricePerTrainee: Money(c.Upgrade.PricePerTrainee),
			Delta:           signed(c.PricePerTraineeDelta),
		}
	}

	return documentTemplate.Execute(w, view)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

var documentTemplate = template.Must(template.New("quote").Funcs(template.FuncMap{
	"money": Money,
}).Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<title>Devis estimatif {{.Ref}}</title>
<style>
  @page { size: A4; margin: 0; }
  body { margin: 0; padding: 40px; font-family: "Times New Roman", serif; font-size: 10pt; color: #2D2426; }
  header { display: flex; justify-content: space-between; border-bottom: 1px solid #800020; padding-bottom: 10px; margin-bottom: 20px; }
  header img { width: 100px; height: 100px; margin-right: 15px; object-fit: contain; }
  .brand { font-size: 22pt; color: #800020; font-weight: bold; }
  .label { color: #A33045; }
  section { margin-bottom: 15px; padding: 10px; background: #F9F5F0; border-radius: 4px; }
  h2 { font-size: 12pt; margin: 0 0 6px; color: #800020; }
  .row { display: flex; justify-content: space-between; margin-bottom: 4px; }
  .row .value { font-weight: bold; }
  .total { display: flex; justify-content: space-between; margin-top: 8px; padding-top: 8px; border-top: 1px solid #C5A059; font-size: 12pt; font-weight: bold; color: #800020; }
  .total .value { color: #C5A059; }
  .per { text-align: right; font-size: 9pt; color: #64748B; }
  .notice { margin-top: 20px; color: #800020; }
  footer { position: absolute; bottom: 30px; left: 40px; right: 40px; text-align: center; color: #A33045; font-size: 8pt; }
</style>
<script type="application/json" id="quote-totals">{{.Totals}}</script>
</head>
<body>
<header>
  <div style="display: flex; align-items: center;">
    {{if .Logo}}<img src="{{.Logo}}" alt="">{{end}}
    <div>
      <div class="brand">{{.Brand.VenueName}}</div>
      <div class="label">Devis estimatif</div>
    </div>
  </div>
  <div style="text-align: right;">
    {{if .Ref}}<div>Réf : {{.Ref}}</div>{{end}}
    <div>Date : {{.Date}}</div>
  </div>
</header>
{{with .Quote}}
<section>
  <h2>Informations client</h2>
  <div class="row"><span class="label">Nom :</span><span class="value">{{.Name}}</span></div>
  <div class="row"><span class="label">Email :</span><span class="value">{{.Email}}</span></div>
  <div class="row"><span class="label">Téléphone :</span><span class="value">{{.Phone}}</span></div>
  {{if .EventName}}<div class="row"><span class="label">Événement :</span><span class="value">{{.EventName}}</span></div>{{end}}
</section>
{{end}}
<section>
  <h2>Détails du séjour ({{.B.Nights}} nuits)</h2>
  {{with .Quote}}
  <div class="row"><span class="label">Activité :</span><span class="value">{{.Activity}}</span></div>
  <div class="row"><span class="label">Dates :</span><span class="value">Du {{.From}} ({{.StartTime}}) au {{.To}} ({{.EndTime}})</span></div>
  {{end}}
  <div class="row"><span class="label">Participants :</span><span class="value">{{.B.Participants}} pers.</span></div>
  <div class="row"><span class="label">Formule :</span><span class="value">{{.B.Formula.Label}}</span></div>
  <div class="row"><span class="label">Salle :</span><span class="value">{{.B.Room.Label}}</span></div>
</section>
<section>
  <h2>Coûts stagiaires (hébergement + repas)</h2>
  {{range .Trainee}}<div class="row"><span class="label">{{.Label}}</span><span class="value">{{.Amount}}</span></div>
  {{end}}
  <div class="total"><span>TOTAL GROUPE STAGIAIRES</span><span class="value" data-total="trainee">{{money .B.TraineeTotal}}</span></div>
  <div class="per">Soit {{money .B.PricePerTrainee}} / participant</div>
</section>
<section>
  <h2>Coûts organisateur (salle + matériel + équipe)</h2>
  {{range .Organizer}}<div class="row"><span class="label">{{.Label}}</span><span class="value">{{.Amount}}</span></div>
  {{end}}
  <div class="total"><span>TOTAL ORGANISATEUR</span><span class="value" data-total="organizer">{{money .B.OrganizerTotal}}</span></div>
</section>
{{with .Upgrade}}
<section>
  <h2>Et en formule {{.Formula}} ?</h2>
  <div class="row"><span class="label">Prix par participant</span><span class="value">{{.PricePerTrainee}} ({{.Delta}})</span></div>
</section>
{{end}}
<p class="notice">Ce document est une simulation tarifaire et ne constitue pas une réservation ferme.
Veuillez contacter le gérant pour valider les disponibilités.</p>
<footer>{{.Brand.VenueName}}{{if .Brand.VenueURL}} - {{.Brand.VenueURL}}{{end}} - Généré automatiquement</footer>
</body>
</html>
`))
