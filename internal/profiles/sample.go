package profiles

// SampleDocument is written by `ocrctl config init` as a starting point.
const SampleDocument = `# OCR profiles: name -> engine arguments.
# ocrmypdf_args are passed to the engine verbatim and in order.
balanced:
  description: Reasonable quality with moderate optimisation
  ocrmypdf_args: ["--optimize", "1", "--skip-text"]
fast:
  description: Quickest pass, no optimisation
  ocrmypdf_args: ["--optimize", "0", "--skip-text", "--fast-web-view", "0"]
quality:
  description: Deskew and clean scans, archival PDF/A output
  ocrmypdf_args: ["--deskew", "--clean", "--optimize", "3", "--output-type", "pdfa"]
`
