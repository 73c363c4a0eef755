package render

// Print templates for the two document types. Each emits a complete,
// self-contained HTML page sized for A4 rasterization; the only external
// fetch is the Google Fonts stylesheet, matching what the editor loads so
// the preview and the PDF use identical font metrics.

const printFontStylesheet = `https://fonts.googleapis.com/css2?family=Alex+Brush&family=Great+Vibes&family=Imperial+Script&family=Mrs+Saint+Delafield&family=WindSong:wght@400;500&family=Yesteryear&family=Montserrat:wght@400;500;600;700&display=swap`

const resumePrintTemplateString = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{if .Title}}{{.Title}}{{else}}Document{{end}}</title>
<link href="` + printFontStylesheet + `" rel="stylesheet">
<style>
:root { --muted: #4a4a4a; --border: #d9d9d9; }
* { box-sizing: border-box; }
body {
  margin: 0;
  padding: 32px 28px;
  font-family: {{.FontFamily}};
  background: #ffffff;
  color: #111;
}
h1, h2, h3 { margin: 0; padding: 0; }
.page { width: 100%; display: flex; flex-direction: column; }
.muted { color: var(--muted); }
.section { margin-top: 18px; padding-top: 14px; border-top: 1px solid var(--border); }
.section-heading {
  text-align: center;
  font-size: 13px;
  letter-spacing: 0.18em;
  font-weight: 700;
  margin-bottom: 12px;
  text-transform: uppercase;
}
.row { display: flex; align-items: center; justify-content: space-between; gap: 12px; }
.leader { border-bottom: 1px dotted var(--border); flex: 1; margin: 0 10px; height: 12px; }
.label { font-size: 12px; color: #1f1f1f; }
.value { font-size: 12px; color: #1f1f1f; }
.grid-2 { display: grid; grid-template-columns: repeat(2, minmax(0, 1fr)); gap: 8px 16px; }
.title-lg { text-align: center; font-size: 26px; letter-spacing: 0.05em; font-weight: 700; margin-bottom: 4px; }
.subtitle { text-align: center; font-size: 12px; letter-spacing: 0.18em; font-weight: 700; margin-bottom: 6px; }
.meta-line { margin-top: 4px; text-align: center; font-size: 12px; color: #2d2d2d; }
.summary { text-align: center; font-size: 12px; line-height: 1.6; color: #2b2b2b; }
.body-text { font-size: 12px; line-height: 1.6; }
.card { border: 1px solid #e5e7eb; border-radius: 16px; padding: 16px; margin-top: 16px; }
.card:first-child { margin-top: 0; background: #f8fafc; padding: 20px; }
.card .section-heading { text-align: left; margin-bottom: 8px; font-size: 12px; }
.pill {
  display: inline-block;
  font-size: 11px;
  padding: 4px 10px;
  border-radius: 999px;
  background: #eef2ff;
  color: #3730a3;
  margin: 2px 4px 2px 0;
}
</style>
</head>
<body>
<div class="page">
{{if .Modern}}
  <div class="card">
    <div class="title-lg">{{.Name}}</div>
    {{if .Headline}}<div class="subtitle">{{.Headline}}</div>{{end}}
    <div class="meta-line">
      {{if .Email}}<span>{{.Email}}</span>{{end}}
      {{if .Phone}}<span>{{.Phone}}</span>{{end}}
      {{if .Location}}<span>{{.Location}}</span>{{end}}
      {{if .Website}}<span>{{.Website}}</span>{{end}}
    </div>
    {{range .Extras}}<div class="meta-line">{{.Label}}: {{.Value}}</div>{{end}}
    {{if .SummaryHTML}}
    <div class="section-heading" style="margin-top: 16px;">Summary</div>
    <div class="body-text muted">{{.SummaryHTML}}</div>
    {{end}}
  </div>
{{else}}
  <div class="title-lg">{{.Name}}</div>
  {{if .Headline}}<div class="subtitle">{{.Headline}}</div>{{end}}
  {{if .Location}}<div class="meta-line">{{.Location}}</div>{{end}}
  <div class="meta-line" style="display: flex; justify-content: space-between; gap: 16px; font-weight: 600;">
    <span>{{.Phone}}</span>
    <span>{{.Website}}</span>
    <span>{{.Email}}</span>
  </div>
  {{range .Extras}}<div class="meta-line">{{.Label}}: {{.Value}}</div>{{end}}
  {{if .SummaryHTML}}
  <div class="section">
    <div class="section-heading">Profile</div>
    <div class="summary">{{.SummaryHTML}}</div>
  </div>
  {{end}}
{{end}}

{{if .Links}}
<div class="{{if .Modern}}card{{else}}section{{end}}">
  <div class="section-heading">Links</div>
  <div style="display: flex; flex-wrap: wrap; gap: 12px; {{if not .Modern}}justify-content: center;{{end}}">
    {{range .Links}}
    <span class="{{if $.Modern}}pill{{end}}" style="font-size: 12px;">
      {{if .URL}}<a href="{{.URL}}" style="color: inherit; text-decoration: underline; font-weight: 600;">{{.Label}}</a>{{else}}{{.Label}}{{end}}
    </span>
    {{end}}
  </div>
</div>
{{end}}

{{if .Experience}}
<div class="{{if .Modern}}card{{else}}section{{end}}">
  <div class="section-heading">Experience</div>
  <div style="display: flex; flex-direction: column; gap: 12px;">
    {{range .Experience}}
    <div style="display: flex; flex-direction: column; gap: 6px;">
      <div class="row">
        <span class="label" style="font-weight: 700; font-size: 13px;">{{.Title}}</span>
        <span class="value" style="font-size: 11px; letter-spacing: 0.05em;">{{.Range}}</span>
      </div>
      <div class="row">
        <span class="label">{{.Subtitle}}</span>
        <span class="leader"></span>
        <span class="value" style="font-size: 11px;">{{.Meta}}</span>
      </div>
      {{if .BodyHTML}}<div class="muted body-text">{{.BodyHTML}}</div>{{end}}
    </div>
    {{end}}
  </div>
</div>
{{end}}

{{if .Education}}
<div class="{{if .Modern}}card{{else}}section{{end}}">
  <div class="section-heading">Education</div>
  <div style="display: flex; flex-direction: column; gap: 12px;">
    {{range .Education}}
    <div style="display: flex; flex-direction: column; gap: 6px;">
      <div class="row">
        <span class="label" style="font-weight: 700; font-size: 13px;">{{.Title}}</span>
        <span class="value" style="font-size: 11px; letter-spacing: 0.05em;">{{.Range}}</span>
      </div>
      <div class="row">
        <span class="label">{{.Subtitle}}</span>
        <span class="leader"></span>
        <span class="value" style="font-size: 11px;">{{.Meta}}</span>
      </div>
      {{if .BodyHTML}}<div class="muted body-text">{{.BodyHTML}}</div>{{end}}
    </div>
    {{end}}
  </div>
</div>
{{end}}

{{if or .SkillGroups .SkillPairs}}
<div class="{{if .Modern}}card{{else}}section{{end}}">
  <div class="section-heading">Skills</div>
  {{range .SkillGroups}}
  <div style="margin-top: 6px;">
    {{if .Title}}<div class="label" style="font-weight: 700;">{{.Title}}</div>{{end}}
    <div style="margin-top: 4px;">
      {{range .Items}}<span class="pill">{{.Label}}</span>{{end}}
    </div>
  </div>
  {{end}}
  {{if .SkillPairs}}
  <div class="grid-2">
    {{range .SkillPairs}}
    <div class="row" style="font-size: 12px;">
      <span class="label">{{.Label}}</span>
      <span class="leader"></span>
      <span class="value">{{.Value}}</span>
    </div>
    {{end}}
  </div>
  {{end}}
</div>
{{end}}

{{if .Languages}}
<div class="{{if .Modern}}card{{else}}section{{end}}">
  <div class="section-heading">Languages</div>
  <div class="grid-2">
    {{range .Languages}}
    <div class="row" style="font-size: 12px;">
      <span class="label">{{.Label}}</span>
      <span class="leader"></span>
      <span class="value">{{.Value}}</span>
    </div>
    {{end}}
  </div>
</div>
{{end}}

{{range .Custom}}
<div class="{{if $.Modern}}card{{else}}section{{end}}">
  <div class="section-heading">{{.Title}}</div>
  <div style="display: flex; flex-direction: column; gap: 10px;">
    {{range .Items}}
    <div style="display: flex; flex-direction: column; gap: 4px;">
      <div class="row">
        <span class="label" style="font-weight: 700;">{{.Title}}</span>
        <span class="leader"></span>
        <span class="value" style="font-size: 11px; letter-spacing: 0.05em;">{{.Range}}</span>
      </div>
      {{if .BodyHTML}}<div class="muted body-text">{{.BodyHTML}}</div>{{end}}
    </div>
    {{end}}
  </div>
</div>
{{end}}
</div>
</body>
</html>
`

const coverPrintTemplateString = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{if .Title}}{{.Title}}{{else}}Document{{end}}</title>
<link href="` + printFontStylesheet + `" rel="stylesheet">
<style>
* { box-sizing: border-box; }
body { margin: 0; padding: 0; background: #ffffff; color: #111111; }
.cover-page {
  width: 210mm;
  min-height: 297mm;
  margin: 0 auto;
  padding: 8mm 18mm 14mm;
  display: flex;
  flex-direction: column;
  gap: 4mm;
  font-family: {{.FontFamily}};
}
.cover-header { display: flex; flex-direction: column; align-items: center; text-align: center; gap: 10px; }
.cover-name { margin: 0; font-size: 28px; font-weight: 700; letter-spacing: -0.02em; }
.cover-date-label {
  font-size: 11px;
  letter-spacing: 0.2em;
  font-weight: 700;
  color: #64748b;
  text-transform: uppercase;
}
.cover-contact { display: flex; flex-wrap: wrap; justify-content: center; gap: 10px; font-size: 14px; }
.cover-separator { margin-top: 6px; width: 100%; }
.cover-separator .line { height: 1px; width: 100%; background: #e5e7eb; }
.recipient { font-size: 14px; line-height: 1.55; }
.recipient-label {
  font-size: 10px;
  letter-spacing: 0.16em;
  font-weight: 600;
  text-transform: uppercase;
  color: #4b5563;
}
.subject { margin-top: 12px; font-size: 13px; font-weight: 600; }
.cover-body { font-size: 15px; line-height: 1.75; text-align: justify; }
.cover-block + .cover-block { margin-top: 14px; }
.cover-paragraph { margin: 0; }
.spacing-compact .cover-paragraph + .cover-paragraph { margin-top: 10px; }
.spacing-normal .cover-paragraph + .cover-paragraph { margin-top: 14px; }
.spacing-relaxed .cover-paragraph + .cover-paragraph { margin-top: 18px; }
.signature-script { font-size: 32pt; line-height: 1.2; font-weight: 400; }
.signature-name { margin-top: 8px; font-size: 12pt; font-weight: 600; }
.cover-custom {
  margin-top: 18px;
  border-top: 1px solid #e5e7eb;
  padding-top: 12px;
  font-size: 14px;
  line-height: 1.65;
}
.cover-custom h2 { margin: 0 0 6px; font-size: 14px; font-weight: 700; }
.card { border: 1px solid #e2e8f0; border-radius: 18px; padding: 18px; background: #f8fafc; }
</style>
</head>
<body>
<div class="cover-page {{.SpacingClass}}">
  {{if .ShowHeader}}
  <div class="{{if .Modern}}card{{end}}">
    <div class="cover-header">
      <p class="cover-name">{{.SenderName}}</p>
      {{if .DateLine}}
      <div>
        <div class="cover-date-label">{{.DateLabel}}</div>
        <div style="margin-top: 4px; font-size: 13px;">{{.DateLine}}</div>
      </div>
      {{end}}
      {{if .ContactParts}}
      <div class="cover-contact" style="margin-top: 6px;">
        {{range $i, $part := .ContactParts}}{{if $i}}<span style="color: #d1d5db;">•</span>{{end}}<span>{{$part}}</span>{{end}}
      </div>
      {{end}}
      {{if .Links}}
      <div class="cover-contact" style="margin-top: 4px;">
        {{range $i, $link := .Links}}{{if $i}}<span style="color: #d1d5db;">•</span>{{end}}{{if $link.URL}}<a href="{{$link.URL}}" style="text-decoration: underline; color: #111111;">{{$link.Label}}</a>{{else}}<span style="text-decoration: underline;">{{$link.Label}}</span>{{end}}{{end}}
      </div>
      {{end}}
      <div class="cover-separator"><div class="line"></div></div>
    </div>
  </div>
  {{end}}

  {{if or .Recipient .ShowSubject}}
  <div class="recipient">
    {{if .Recipient}}
    <div class="recipient-label">{{.ToLabel}}</div>
    <div style="margin-top: 6px; display: flex; flex-direction: column; gap: 3px;">
      {{range .Recipient}}<div>{{.}}</div>{{end}}
    </div>
    {{end}}
    {{if .ShowSubject}}
    <div class="subject">{{.SubjectLabel}}: {{.Subject}}</div>
    {{end}}
  </div>
  {{end}}

  <div class="cover-body">
    {{range .Blocks}}
    <div class="cover-block">
      {{if .IsSignature}}
      <div class="signature-script" style="font-family: {{.Font}};">
        {{range .Paragraphs}}<p class="cover-paragraph">{{.}}</p>{{end}}
      </div>
      <div class="signature-name">{{.SenderName}}</div>
      {{else}}
      {{range .Paragraphs}}<p class="cover-paragraph">{{.}}</p>{{end}}
      {{end}}
    </div>
    {{end}}
  </div>

  {{if .Custom}}
  <div class="cover-custom">
    {{range .Custom}}
    <div class="cover-block">
      <h2>{{.Title}}</h2>
      {{range .Paragraphs}}<p class="cover-paragraph">{{.}}</p>{{end}}
    </div>
    {{end}}
  </div>
  {{end}}
</div>
</body>
</html>
`
